package util

import (
	"io"
	"net/http"
)

// GetSafeContentType 嗅探真实的 MIME 类型，不信任客户端声明。
// 读取后把流位置拨回开头。
func GetSafeContentType(seeker io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := seeker.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = seeker.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

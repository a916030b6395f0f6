package minio

import (
	"Hitoiki/internal/api/config"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", errors.New("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, MediaBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to upload file")
	}

	return uploadInfo.Key, nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO
	return fmt.Sprintf("https://%s/%s/%s", cfg.ExternalEndpoint, MediaBucket, objectName)
}

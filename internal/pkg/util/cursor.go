package util

import (
	"encoding/base64"
	"time"

	"github.com/goccy/go-json"
)

// listCursor 公开列表翻页游标，记录上一页末尾的排序键
type listCursor struct {
	PublicDate int64  `json:"pd"`
	ID         uint64 `json:"id"`
}

// EncodeCursor 将排序键编码为 Base64 字符串
func EncodeCursor(publicDate time.Time, id uint64) string {
	b, _ := json.Marshal(listCursor{
		PublicDate: publicDate.UnixMilli(),
		ID:         id,
	})
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor 将前端传来的 Base64 字符串解码为排序键。
// 空游标表示第一页，返回 (nil, 0, nil)。
func DecodeCursor(cursor string) (*time.Time, uint64, error) {
	if cursor == "" {
		return nil, 0, nil
	}
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, 0, err
	}
	var c listCursor
	if err = json.Unmarshal(b, &c); err != nil {
		return nil, 0, err
	}
	t := time.UnixMilli(c.PublicDate)
	return &t, c.ID, nil
}

package model

import (
	"database/sql/driver"
	"time"

	"github.com/goccy/go-json"
)

const (
	ArticleStatusPending   int8 = 0 // 待审核
	ArticleStatusPublished int8 = 1 // 已公开
	ArticleStatusRejected  int8 = 2 // 未通过，可重新提交
)

type Article struct {
	ID            uint64       `gorm:"primaryKey" json:"id"`
	Title         string       `gorm:"type:varchar(255);not null" json:"title"`
	Content       string       `gorm:"not null" json:"content"`
	Categories    CategoryList `gorm:"type:json" json:"categories"`
	MediaURLs     MediaList    `gorm:"type:json" json:"media_urls"`
	Status        int8         `gorm:"not null;default:0;index:idx_status_public_date" json:"status"`
	CreatedUserID string       `gorm:"type:varchar(64);not null;index:idx_created_user" json:"created_user_id"`
	CreatedAt     time.Time    `json:"created_at"`
	PublicDate    *time.Time   `gorm:"index:idx_status_public_date" json:"public_date"`
	DeletedAt     *time.Time   `json:"deleted_at"`
}

func (Article) TableName() string {
	return "articles"
}

// CategoryList 分类 ID 集合，JSON 列存储
type CategoryList []int

func (c CategoryList) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func (c *CategoryList) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		b = []byte(value.(string))
	}
	return json.Unmarshal(b, c)
}

// MediaList 媒体公开 URL 列表，保持上传顺序。
// nil 表示投稿未附带任何媒体，空切片表示附带的媒体全部上传失败，
// 两者在 DB 中分别存为 NULL 和 '[]'。
type MediaList []string

func (m MediaList) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *MediaList) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		b = []byte(value.(string))
	}
	return json.Unmarshal(b, m)
}

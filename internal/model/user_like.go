package model

import (
	"time"
)

// UserLike (article_id, user_id) 每对至多一条记录，
// like_count 累积同一用户的重复点赞
type UserLike struct {
	ArticleID uint64    `gorm:"primaryKey" json:"article_id"`
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"user_id"`
	LikeCount int64     `gorm:"not null;default:1" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserLike) TableName() string {
	return "user_likes"
}

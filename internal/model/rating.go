package model

import (
	"time"
)

// HistoryRating 当前窗口计数，读取计数时以此表为准
type HistoryRating struct {
	ArticleID   uint64 `gorm:"primaryKey" json:"article_id"`
	AccessCount int64  `gorm:"not null;default:0" json:"access_count"`
	LikeCount   int64  `gorm:"not null;default:0" json:"like_count"`
}

func (HistoryRating) TableName() string {
	return "history_rating"
}

// DailyRating 当日增量窗口，汇总任务定期折算进 aggregate_points 后清零
type DailyRating struct {
	ArticleID   uint64 `gorm:"primaryKey" json:"article_id"`
	AccessCount int64  `gorm:"not null;default:0" json:"access_count"`
	LikeCount   int64  `gorm:"not null;default:0" json:"like_count"`
}

func (DailyRating) TableName() string {
	return "daily_rating"
}

// AggregatePoint 终身累计，只由汇总任务写入
type AggregatePoint struct {
	ArticleID   uint64    `gorm:"primaryKey" json:"article_id"`
	AccessTotal int64     `gorm:"not null;default:0" json:"access_total"`
	LikeTotal   int64     `gorm:"not null;default:0" json:"like_total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AggregatePoint) TableName() string {
	return "aggregate_points"
}

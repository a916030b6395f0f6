package es

import (
	"time"
)

// ArticleES 检索用文档，只索引已公开的文章
type ArticleES struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Categories    []int     `json:"categories"`
	CreatedUserID string    `json:"created_user_id"`
	PublicDate    time.Time `json:"public_date"`
}

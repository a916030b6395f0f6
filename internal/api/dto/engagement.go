package dto

// EngagementDTO 当前窗口计数
type EngagementDTO struct {
	ArticleID   uint64 `json:"article_id"`
	AccessCount int64  `json:"access_count"`
	LikeCount   int64  `json:"like_count"`
}

// LikeResultDTO 点赞结果。LikedNow 为 false 表示本次是重复点赞，
// 只累加了用户的连击计数。
type LikeResultDTO struct {
	ArticleID uint64 `json:"article_id"`
	LikedNow  bool   `json:"liked_now"`
	UserTotal int64  `json:"user_total"`
}

package dto

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ModerationDTO 审核决定
type ModerationDTO struct {
	Decision string `json:"decision" binding:"required" validate:"oneof=approve reject"`
}

// ModerationResultDTO 审核结果。Changed 为 false 表示重复决定，未产生状态变化。
type ModerationResultDTO struct {
	ArticleID uint64 `json:"article_id"`
	Status    int8   `json:"status"`
	Changed   bool   `json:"changed"`
}

package dto

// ArticleDTO 文章
type ArticleDTO struct {
	ID            uint64   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Categories    []int    `json:"categories"`
	MediaURLs     []string `json:"media_urls"`
	Status        int8     `json:"status"`
	CreatedUserID string   `json:"created_user_id"`
	CreatedAt     string   `json:"created_at"`
	PublicDate    string   `json:"public_date,omitempty"`
}

// ArticleCreateDTO 文章投稿，媒体文件走 multipart 随表单一起提交
type ArticleCreateDTO struct {
	Title      string `form:"title" binding:"required" validate:"min=1,max=255"`
	Content    string `form:"content" binding:"required" validate:"min=1,max=10000"`
	Categories []int  `form:"categories" validate:"max=5"`
}

// ArticleSubmitResultDTO 投稿结果。PartialInit 为 true 表示文章已落库
// 但计数投影未全部建好，后台任务会补齐。
type ArticleSubmitResultDTO struct {
	ID           uint64 `json:"id"`
	PartialInit  bool   `json:"partial_init"`
	DroppedMedia int    `json:"dropped_media,omitempty"`
}

// ArticleListDTO 游标分页列表
type ArticleListDTO struct {
	List       []*ArticleDTO `json:"list"`
	NextCursor string        `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// ArticleSearchDTO 全文检索请求，from/size 分页，深度由 ES 层封顶
type ArticleSearchDTO struct {
	Keyword string `form:"keyword" validate:"max=255"`
	From    int    `form:"from" validate:"min=0"`
	Size    int    `form:"size" validate:"min=0,max=50"`
}

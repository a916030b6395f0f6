package consts

const (
	ArticleAccessKey = "article:access:"
	ArticleLikeKey   = "article:like:"

	// ArticleDirtyKey 有计数变化的文章集合，汇总任务消费
	ArticleDirtyKey = "article:dirty"

	// EngagementRepairKey 计数投影初始化不完整的文章集合，修复任务消费
	EngagementRepairKey = "engagement:repair"
)

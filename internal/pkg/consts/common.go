package consts

const (
	MimePrefixImage = "image"
	MimePrefixVideo = "video"
)

const (
	// DefaultPageSize 公开列表默认页大小
	DefaultPageSize = 30
	// MaxMediaPerArticle 单篇文章媒体上限
	MaxMediaPerArticle = 4
)

const (
	RoleModerator = "MODERATOR"
	RoleAdmin     = "ADMIN"
)

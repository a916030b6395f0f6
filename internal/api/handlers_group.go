package api

import "Hitoiki/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	ArticleHandler      *handler.ArticleHandler
	EngagementHandler   *handler.EngagementHandler
	ModerationHandler   *handler.ModerationHandler
	NotificationHandler *handler.NotificationHandler
}

package api

import (
	"Hitoiki/internal/api/middleware"
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		articleGroup := apiGroup.Group("/articles")
		{
			authOptGroup := articleGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/list", group.ArticleHandler.ListPublished)
				authOptGroup.GET("/search", group.ArticleHandler.Search)
				authOptGroup.GET("/detail/:article_id", group.ArticleHandler.GetArticle)
			}

			authGroup := articleGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.ArticleHandler.Submit)
				authGroup.DELETE("/:article_id", group.ArticleHandler.Delete)
			}

			moderationGroup := authGroup.Group("/moderation")
			moderationGroup.Use(middleware.CheckRoles(consts.RoleModerator, consts.RoleAdmin))
			{
				moderationGroup.GET("/list", group.ArticleHandler.ListUnpublished)
				moderationGroup.PUT("/:article_id", group.ModerationHandler.Decide)
			}
		}

		engagementGroup := apiGroup.Group("/engagement")
		{
			engagementGroup.GET("/:article_id", group.EngagementHandler.GetEngagement)
			engagementGroup.GET("/:article_id/daily", group.EngagementHandler.GetDailyEngagement)
			engagementGroup.GET("/:article_id/lifetime", group.EngagementHandler.GetLifetimeEngagement)
			engagementGroup.POST("/views/:article_id", group.EngagementHandler.RecordView)

			authGroup := engagementGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/likes/:article_id", group.EngagementHandler.Like)
			}
		}

		notificationGroup := apiGroup.Group("/notifications")
		notificationGroup.Use(middleware.AuthMiddleware())
		{
			notificationGroup.GET("/list", group.NotificationHandler.GetNotificationList)
			notificationGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notificationGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
		}
	}

	return r
}

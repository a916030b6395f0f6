package wire

import (
	"Hitoiki/internal/api"
	"Hitoiki/internal/api/config"
	"Hitoiki/internal/api/handler"
	"Hitoiki/internal/job"
	"Hitoiki/internal/pkg/cron"
	"Hitoiki/internal/pkg/es"
	"Hitoiki/internal/pkg/kafka"
	"Hitoiki/internal/pkg/minio"
	"Hitoiki/internal/pkg/mongo"
	"Hitoiki/internal/repository"
	"Hitoiki/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	CronMgr  *cron.Manager
	Producer *kafka.Producer
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	articleRepo := repository.NewArticleRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	userLikeRepo := repository.NewUserLikeRepo(db)
	notificationRepo := mongo.NewNotificationRepo(mongoDB)
	esRepo := es.NewArticleRepo(es.Client)

	// 事件生产者不可用时服务照常启动，公开事件降级为只记日志
	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Warn("kafka producer unavailable, article published events disabled", "err", err)
		producer = nil
	}
	var publisher service.EventPublisher
	if producer != nil {
		publisher = producer
	}

	mediaService := service.NewMediaService(minio.NewStore())
	engagementService := service.NewEngagementService(ratingRepo, userLikeRepo)
	articleService := service.NewArticleService(articleRepo, esRepo, mediaService, engagementService)
	moderationService := service.NewModerationService(articleRepo, notificationRepo, esRepo, publisher)
	notificationService := service.NewNotificationService(notificationRepo)

	handlers := &api.HandlersGroup{
		ArticleHandler:      handler.NewArticleHandler(articleService),
		EngagementHandler:   handler.NewEngagementHandler(engagementService),
		ModerationHandler:   handler.NewModerationHandler(moderationService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
	}

	router := api.SetupRouter(handlers)

	rollupJob := job.NewRatingRollupJob(ratingRepo)
	repairJob := job.NewEngagementRepairJob(ratingRepo)
	cronMgr := cron.NewCronManager(rollupJob, repairJob)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Producer: producer,
	}, nil
}

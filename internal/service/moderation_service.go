package service

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/model"
	"Hitoiki/internal/pkg/es"
	"Hitoiki/internal/pkg/kafka"
	"Hitoiki/internal/pkg/mongo"
	"Hitoiki/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// 审核结果通知文案
const (
	MsgArticleApproved = "あなたの記事が公開されました。"
	MsgArticleRejected = "あなたの記事の投稿が許可されませんでした。"
)

// EventPublisher 文章公开事件发布抽象，生产实现是 Kafka 同步生产者
type EventPublisher interface {
	PublishArticlePublished(ctx context.Context, event *kafka.ArticlePublishedEvent) error
}

type ModerationService interface {
	// Decide 审核决定。幂等：重复决定不重复通知、不覆盖首次公开时间
	Decide(ctx context.Context, articleID uint64, decision string) (*dto.ModerationResultDTO, error)
}

type moderationServiceImpl struct {
	articleRepo      repository.ArticleRepo
	notificationRepo mongo.NotificationRepo
	esRepo           es.ArticleRepo
	publisher        EventPublisher
}

func NewModerationService(
	articleRepo repository.ArticleRepo,
	notificationRepo mongo.NotificationRepo,
	esRepo es.ArticleRepo,
	publisher EventPublisher,
) ModerationService {
	return &moderationServiceImpl{
		articleRepo:      articleRepo,
		notificationRepo: notificationRepo,
		esRepo:           esRepo,
		publisher:        publisher,
	}
}

func (s *moderationServiceImpl) Decide(ctx context.Context, articleID uint64, decision string) (*dto.ModerationResultDTO, error) {
	article, err := s.articleRepo.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	switch decision {
	case dto.DecisionApprove:
		return s.approve(ctx, article)
	case dto.DecisionReject:
		return s.reject(ctx, article)
	default:
		return nil, ErrParamInvalid
	}
}

func (s *moderationServiceImpl) approve(ctx context.Context, article *model.Article) (*dto.ModerationResultDTO, error) {
	publicDate := time.Now()
	changed, err := s.articleRepo.MarkPublished(ctx, article.ID, publicDate)
	if err != nil {
		return nil, err
	}

	if changed {
		// 通知、索引、事件都是尽力而为，状态迁移本身已经落库
		s.notify(ctx, article.CreatedUserID, MsgArticleApproved)
		s.indexArticle(ctx, article, publicDate)
		s.publishEvent(ctx, article, publicDate)
	}

	return &dto.ModerationResultDTO{
		ArticleID: article.ID,
		Status:    model.ArticleStatusPublished,
		Changed:   changed,
	}, nil
}

func (s *moderationServiceImpl) reject(ctx context.Context, article *model.Article) (*dto.ModerationResultDTO, error) {
	// 只有待审核的文章可以驳回，公开后不再回退
	changed, err := s.articleRepo.MarkRejected(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(ctx, article.CreatedUserID, MsgArticleRejected)
	}

	status := article.Status
	if changed {
		status = model.ArticleStatusRejected
	}

	return &dto.ModerationResultDTO{
		ArticleID: article.ID,
		Status:    status,
		Changed:   changed,
	}, nil
}

func (s *moderationServiceImpl) notify(ctx context.Context, receiverID, message string) {
	err := s.notificationRepo.CreateNotification(ctx, &mongo.Notification{
		ReceiverID: receiverID,
		Message:    message,
		IsRead:     false,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		log.WarnContext(ctx, "send moderation notification failed",
			"receiver_id", receiverID, "err", err)
	}
}

func (s *moderationServiceImpl) indexArticle(ctx context.Context, article *model.Article, publicDate time.Time) {
	err := s.esRepo.IndexArticle(ctx, &es.ArticleES{
		ID:            article.ID,
		Title:         article.Title,
		Content:       article.Content,
		Categories:    []int(article.Categories),
		CreatedUserID: article.CreatedUserID,
		PublicDate:    publicDate,
	})
	if err != nil {
		log.WarnContext(ctx, "index article failed", "article_id", article.ID, "err", err)
	}
}

func (s *moderationServiceImpl) publishEvent(ctx context.Context, article *model.Article, publicDate time.Time) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishArticlePublished(ctx, &kafka.ArticlePublishedEvent{
		ArticleID:     article.ID,
		Title:         article.Title,
		CreatedUserID: article.CreatedUserID,
		PublicDate:    publicDate,
	})
	if err != nil {
		log.WarnContext(ctx, "publish article event failed", "article_id", article.ID, "err", err)
	}
}

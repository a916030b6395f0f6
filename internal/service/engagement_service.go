package service

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/model"
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/redis"
	"Hitoiki/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const cacheExpiration = 7 * 24 * time.Hour

type EngagementService interface {
	// InitEngagement 按 当前窗口 -> 日榜 -> 终身累计 的顺序建零值投影
	InitEngagement(ctx context.Context, articleID uint64) error
	// RecordView 访问计数。先当前窗口后日榜，保证日榜不会领先当前窗口
	RecordView(ctx context.Context, articleID uint64) error
	// RecordLike 点赞。首次点赞推进文章计数，重复点赞只累加该用户的连击数
	RecordLike(ctx context.Context, articleID uint64, userID string) (*dto.LikeResultDTO, error)
	// GetEngagement 当前窗口计数，走缓存
	GetEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error)
	// GetDailyEngagement 当日计数
	GetDailyEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error)
	// GetLifetimeEngagement 终身累计
	GetLifetimeEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error)
}

type engagementServiceImpl struct {
	ratingRepo   repository.RatingRepo
	userLikeRepo repository.UserLikeRepo
}

func NewEngagementService(ratingRepo repository.RatingRepo, userLikeRepo repository.UserLikeRepo) EngagementService {
	return &engagementServiceImpl{
		ratingRepo:   ratingRepo,
		userLikeRepo: userLikeRepo,
	}
}

func (s *engagementServiceImpl) InitEngagement(ctx context.Context, articleID uint64) error {
	if err := s.ratingRepo.CreateHistoryRating(ctx, articleID); err != nil {
		return err
	}
	if err := s.ratingRepo.CreateDailyRating(ctx, articleID); err != nil {
		return err
	}
	return s.ratingRepo.CreateAggregatePoint(ctx, articleID)
}

func (s *engagementServiceImpl) RecordView(ctx context.Context, articleID uint64) error {
	// 当前窗口先行。日榜自增只在当前窗口成功后执行，
	// 崩溃最多造成日榜少计，不会多计
	if err := s.ratingRepo.IncrHistoryAccess(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEngagementNotFound
		}
		return err
	}
	if err := s.ratingRepo.IncrDailyAccess(ctx, articleID); err != nil {
		// 日榜行缺失说明初始化不完整，记入修复集合，本次访问照常生效
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		s.markForRepair(ctx, articleID)
	}

	s.markDirty(ctx, articleID)
	return nil
}

func (s *engagementServiceImpl) RecordLike(ctx context.Context, articleID uint64, userID string) (*dto.LikeResultDTO, error) {
	now := time.Now()
	err := s.userLikeRepo.CreateUserLike(ctx, &model.UserLike{
		ArticleID: articleID,
		UserID:    userID,
		LikeCount: 1,
		CreatedAt: now,
		UpdatedAt: now,
	})

	if err != nil {
		if !isDuplicateError(err) {
			return nil, err
		}
		// 重复点赞：文章计数不动，只累加用户的连击数
		if err = s.userLikeRepo.IncrLikeCount(ctx, articleID, userID); err != nil {
			return nil, err
		}
		like, err := s.userLikeRepo.GetUserLike(ctx, articleID, userID)
		if err != nil {
			return nil, err
		}
		return &dto.LikeResultDTO{
			ArticleID: articleID,
			LikedNow:  false,
			UserTotal: like.LikeCount,
		}, nil
	}

	// 首次点赞推进文章计数，顺序同 RecordView
	if err = s.ratingRepo.IncrHistoryLike(ctx, articleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}
	if err = s.ratingRepo.IncrDailyLike(ctx, articleID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.markForRepair(ctx, articleID)
	}

	s.markDirty(ctx, articleID)

	return &dto.LikeResultDTO{
		ArticleID: articleID,
		LikedNow:  true,
		UserTotal: 1,
	}, nil
}

func (s *engagementServiceImpl) GetEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error) {
	idStr := strconv.FormatUint(articleID, 10)
	access, errA := redis.GetInt64(ctx, consts.ArticleAccessKey+idStr)
	like, errL := redis.GetInt64(ctx, consts.ArticleLikeKey+idStr)
	if errA == nil && errL == nil {
		return &dto.EngagementDTO{ArticleID: articleID, AccessCount: access, LikeCount: like}, nil
	}

	rating, err := s.ratingRepo.GetHistoryRating(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}

	_ = redis.SetWithExpiration(ctx, consts.ArticleAccessKey+idStr, rating.AccessCount, cacheExpiration)
	_ = redis.SetWithExpiration(ctx, consts.ArticleLikeKey+idStr, rating.LikeCount, cacheExpiration)

	return &dto.EngagementDTO{
		ArticleID:   articleID,
		AccessCount: rating.AccessCount,
		LikeCount:   rating.LikeCount,
	}, nil
}

func (s *engagementServiceImpl) GetDailyEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error) {
	rating, err := s.ratingRepo.GetDailyRating(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}
	return &dto.EngagementDTO{
		ArticleID:   articleID,
		AccessCount: rating.AccessCount,
		LikeCount:   rating.LikeCount,
	}, nil
}

func (s *engagementServiceImpl) GetLifetimeEngagement(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error) {
	point, err := s.ratingRepo.GetAggregatePoint(ctx, articleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEngagementNotFound
		}
		return nil, err
	}
	return &dto.EngagementDTO{
		ArticleID:   articleID,
		AccessCount: point.AccessTotal,
		LikeCount:   point.LikeTotal,
	}, nil
}

// markDirty 记入脏集合供汇总任务消费，并失效读缓存
func (s *engagementServiceImpl) markDirty(ctx context.Context, articleID uint64) {
	idStr := strconv.FormatUint(articleID, 10)
	if err := redis.SAdd(ctx, consts.ArticleDirtyKey, idStr); err != nil && !errors.Is(err, redis.ErrNotInitialized) {
		log.WarnContext(ctx, "mark dirty failed", "article_id", articleID, "err", err)
	}
	_ = redis.DeleteKey(ctx, consts.ArticleAccessKey+idStr)
	_ = redis.DeleteKey(ctx, consts.ArticleLikeKey+idStr)
}

func (s *engagementServiceImpl) markForRepair(ctx context.Context, articleID uint64) {
	if err := redis.SAdd(ctx, consts.EngagementRepairKey, strconv.FormatUint(articleID, 10)); err != nil {
		log.WarnContext(ctx, "mark for repair failed", "article_id", articleID, "err", err)
	}
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}

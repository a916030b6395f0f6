package repository

import (
	"Hitoiki/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepo 三张计数投影的访问层。
// 所有自增都是 SQL 原子自增，禁止读出-修改-写回，
// 否则并发计数会互相覆盖。
type RatingRepo interface {
	CreateHistoryRating(ctx context.Context, articleID uint64) error
	CreateDailyRating(ctx context.Context, articleID uint64) error
	CreateAggregatePoint(ctx context.Context, articleID uint64) error
	EnsureRatings(ctx context.Context, articleID uint64) error

	IncrHistoryAccess(ctx context.Context, articleID uint64) error
	IncrHistoryLike(ctx context.Context, articleID uint64) error
	IncrDailyAccess(ctx context.Context, articleID uint64) error
	IncrDailyLike(ctx context.Context, articleID uint64) error

	GetHistoryRating(ctx context.Context, articleID uint64) (*model.HistoryRating, error)
	GetDailyRating(ctx context.Context, articleID uint64) (*model.DailyRating, error)
	GetAggregatePoint(ctx context.Context, articleID uint64) (*model.AggregatePoint, error)

	FoldIntoAggregate(ctx context.Context, articleID uint64, access, like int64) error
	SubtractDaily(ctx context.Context, articleID uint64, access, like int64) error
}

type RatingRepoImpl struct {
	db *gorm.DB
}

func NewRatingRepo(db *gorm.DB) RatingRepo {
	return &RatingRepoImpl{db: db}
}

func (s *RatingRepoImpl) CreateHistoryRating(ctx context.Context, articleID uint64) error {
	return s.db.WithContext(ctx).Create(&model.HistoryRating{ArticleID: articleID}).Error
}

func (s *RatingRepoImpl) CreateDailyRating(ctx context.Context, articleID uint64) error {
	return s.db.WithContext(ctx).Create(&model.DailyRating{ArticleID: articleID}).Error
}

func (s *RatingRepoImpl) CreateAggregatePoint(ctx context.Context, articleID uint64) error {
	now := time.Now()
	return s.db.WithContext(ctx).Create(&model.AggregatePoint{
		ArticleID: articleID,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

// EnsureRatings 修复用：补齐缺失的零值投影，已存在的行不动
func (s *RatingRepoImpl) EnsureRatings(ctx context.Context, articleID uint64) error {
	onConflict := clause.OnConflict{DoNothing: true}
	now := time.Now()

	if err := s.db.WithContext(ctx).Clauses(onConflict).
		Create(&model.HistoryRating{ArticleID: articleID}).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Clauses(onConflict).
		Create(&model.DailyRating{ArticleID: articleID}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Clauses(onConflict).
		Create(&model.AggregatePoint{ArticleID: articleID, CreatedAt: now, UpdatedAt: now}).Error
}

func (s *RatingRepoImpl) IncrHistoryAccess(ctx context.Context, articleID uint64) error {
	return s.incrColumn(ctx, &model.HistoryRating{}, articleID, "access_count")
}

func (s *RatingRepoImpl) IncrHistoryLike(ctx context.Context, articleID uint64) error {
	return s.incrColumn(ctx, &model.HistoryRating{}, articleID, "like_count")
}

func (s *RatingRepoImpl) IncrDailyAccess(ctx context.Context, articleID uint64) error {
	return s.incrColumn(ctx, &model.DailyRating{}, articleID, "access_count")
}

func (s *RatingRepoImpl) IncrDailyLike(ctx context.Context, articleID uint64) error {
	return s.incrColumn(ctx, &model.DailyRating{}, articleID, "like_count")
}

func (s *RatingRepoImpl) incrColumn(ctx context.Context, m interface{}, articleID uint64, column string) error {
	result := s.db.WithContext(ctx).Model(m).
		Where("article_id = ?", articleID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *RatingRepoImpl) GetHistoryRating(ctx context.Context, articleID uint64) (*model.HistoryRating, error) {
	var rating model.HistoryRating
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (s *RatingRepoImpl) GetDailyRating(ctx context.Context, articleID uint64) (*model.DailyRating, error) {
	var rating model.DailyRating
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (s *RatingRepoImpl) GetAggregatePoint(ctx context.Context, articleID uint64) (*model.AggregatePoint, error) {
	var point model.AggregatePoint
	err := s.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		First(&point).Error
	if err != nil {
		return nil, err
	}
	return &point, nil
}

// FoldIntoAggregate 把当日增量累加进终身累计
func (s *RatingRepoImpl) FoldIntoAggregate(ctx context.Context, articleID uint64, access, like int64) error {
	result := s.db.WithContext(ctx).Model(&model.AggregatePoint{}).
		Where("article_id = ?", articleID).
		UpdateColumns(map[string]interface{}{
			"access_total": gorm.Expr("access_total + ?", access),
			"like_total":   gorm.Expr("like_total + ?", like),
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SubtractDaily 折算后扣掉已折算的量。用减法而不是直接清零，
// 避免丢掉折算期间新到达的自增。
func (s *RatingRepoImpl) SubtractDaily(ctx context.Context, articleID uint64, access, like int64) error {
	return s.db.WithContext(ctx).Model(&model.DailyRating{}).
		Where("article_id = ?", articleID).
		UpdateColumns(map[string]interface{}{
			"access_count": gorm.Expr("access_count - ?", access),
			"like_count":   gorm.Expr("like_count - ?", like),
		}).Error
}

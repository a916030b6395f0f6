package repository

import (
	"Hitoiki/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type UserLikeRepo interface {
	CreateUserLike(ctx context.Context, like *model.UserLike) error
	IncrLikeCount(ctx context.Context, articleID uint64, userID string) error
	GetUserLike(ctx context.Context, articleID uint64, userID string) (*model.UserLike, error)
	CheckLikeExists(ctx context.Context, articleID uint64, userID string) (bool, error)
}

type UserLikeRepoImpl struct {
	db *gorm.DB
}

func NewUserLikeRepo(db *gorm.DB) UserLikeRepo {
	return &UserLikeRepoImpl{db: db}
}

// CreateUserLike 依赖 (article_id, user_id) 主键约束判定首次点赞，
// 重复插入由上层捕获 1062 处理
func (s *UserLikeRepoImpl) CreateUserLike(ctx context.Context, like *model.UserLike) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *UserLikeRepoImpl) IncrLikeCount(ctx context.Context, articleID uint64, userID string) error {
	return s.db.WithContext(ctx).Model(&model.UserLike{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		UpdateColumns(map[string]interface{}{
			"like_count": gorm.Expr("like_count + 1"),
			"updated_at": time.Now(),
		}).Error
}

func (s *UserLikeRepoImpl) GetUserLike(ctx context.Context, articleID uint64, userID string) (*model.UserLike, error) {
	var like model.UserLike
	err := s.db.WithContext(ctx).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *UserLikeRepoImpl) CheckLikeExists(ctx context.Context, articleID uint64, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UserLike{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error
	return count > 0, err
}

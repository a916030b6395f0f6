package repository

import (
	"Hitoiki/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type ArticleRepo interface {
	CreateArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id uint64) (*model.Article, error)
	ListPublished(ctx context.Context, lastPublicDate *time.Time, lastID uint64, category int, limit int) ([]*model.Article, error)
	ListUnpublished(ctx context.Context) ([]*model.Article, error)
	MarkPublished(ctx context.Context, id uint64, publicDate time.Time) (bool, error)
	MarkRejected(ctx context.Context, id uint64) (bool, error)
	SoftDelete(ctx context.Context, id uint64) error
}

type ArticleRepoImpl struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) ArticleRepo {
	return &ArticleRepoImpl{db: db}
}

func (s *ArticleRepoImpl) CreateArticle(ctx context.Context, article *model.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

// GetArticle 软删除的文章对所有读取路径不可见
func (s *ArticleRepoImpl) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	var article model.Article
	err := s.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// ListPublished 按 (public_date, id) 倒序做 keyset 分页。
// 游标固定在最后一条记录上，只要没有更新的文章插到游标之前，
// 重复请求同一游标返回同一页。
func (s *ArticleRepoImpl) ListPublished(ctx context.Context, lastPublicDate *time.Time, lastID uint64, category int, limit int) ([]*model.Article, error) {
	query := s.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", model.ArticleStatusPublished)

	if category > 0 {
		query = query.Where("JSON_CONTAINS(categories, CAST(? AS JSON))", category)
	}

	if lastPublicDate != nil {
		query = query.Where(
			"public_date < ? OR (public_date = ? AND id < ?)",
			lastPublicDate, lastPublicDate, lastID,
		)
	}

	var articles []*model.Article
	err := query.
		Order("public_date DESC").
		Order("id DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// ListUnpublished 审核队列：待审与未通过的文章，排除软删除
func (s *ArticleRepoImpl) ListUnpublished(ctx context.Context) ([]*model.Article, error) {
	var articles []*model.Article
	err := s.db.WithContext(ctx).
		Where("status IN ? AND deleted_at IS NULL", []int8{model.ArticleStatusPending, model.ArticleStatusRejected}).
		Order("created_at DESC").
		Find(&articles).Error
	return articles, err
}

// MarkPublished 只迁移非公开状态的行，重复批准不会覆盖首次的公开时间。
// 返回值表示是否真的发生了状态迁移。
func (s *ArticleRepoImpl) MarkPublished(ctx context.Context, id uint64, publicDate time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ? AND status <> ?", id, model.ArticleStatusPublished).
		Updates(map[string]interface{}{
			"status":      model.ArticleStatusPublished,
			"public_date": publicDate,
			"deleted_at":  nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (s *ArticleRepoImpl) MarkRejected(ctx context.Context, id uint64) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ? AND status = ?", id, model.ArticleStatusPending).
		Updates(map[string]interface{}{
			"status":     model.ArticleStatusRejected,
			"deleted_at": nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (s *ArticleRepoImpl) SoftDelete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now()).Error
}

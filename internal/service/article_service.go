package service

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/model"
	"Hitoiki/internal/pkg/consts"
	"Hitoiki/internal/pkg/es"
	"Hitoiki/internal/pkg/redis"
	"Hitoiki/internal/pkg/util"
	"Hitoiki/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

type ArticleService interface {
	// SubmitArticle 投稿：先传媒体再落文章，最后建计数投影。
	// 投影没建全时文章保留，返回部分成功并交给修复任务补齐。
	SubmitArticle(ctx context.Context, userID string, req *dto.ArticleCreateDTO, assets []*MediaAsset) (*dto.ArticleSubmitResultDTO, error)
	// GetArticle 非公开文章只有作者和审核员可见
	GetArticle(ctx context.Context, id uint64, userID string, isModerator bool) (*dto.ArticleDTO, error)
	// ListPublished 公开列表，游标分页，category 为 0 时不过滤
	ListPublished(ctx context.Context, cursor string, category, size int) (*dto.ArticleListDTO, error)
	// ListUnpublished 审核队列
	ListUnpublished(ctx context.Context) ([]*dto.ArticleDTO, error)
	// SearchArticles 全文检索，只命中已公开文章
	SearchArticles(ctx context.Context, req *dto.ArticleSearchDTO) ([]*dto.ArticleDTO, error)
	// DeleteArticle 软删除，只有作者和审核员可删
	DeleteArticle(ctx context.Context, id uint64, userID string, isModerator bool) error
}

type articleServiceImpl struct {
	articleRepo   repository.ArticleRepo
	esRepo        es.ArticleRepo
	mediaSvc      MediaService
	engagementSvc EngagementService
}

func NewArticleService(
	articleRepo repository.ArticleRepo,
	esRepo es.ArticleRepo,
	mediaSvc MediaService,
	engagementSvc EngagementService,
) ArticleService {
	return &articleServiceImpl{
		articleRepo:   articleRepo,
		esRepo:        esRepo,
		mediaSvc:      mediaSvc,
		engagementSvc: engagementSvc,
	}
}

func (s *articleServiceImpl) SubmitArticle(ctx context.Context, userID string, req *dto.ArticleCreateDTO, assets []*MediaAsset) (*dto.ArticleSubmitResultDTO, error) {
	if len(assets) > consts.MaxMediaPerArticle {
		return nil, ErrParamInvalid
	}

	// 未附带媒体与全部上传失败在存储上是两种值：
	// 前者 media_urls 为 NULL，后者为空数组
	var mediaURLs model.MediaList
	dropped := 0
	if assets != nil {
		urls, d, err := s.mediaSvc.UploadAll(ctx, assets)
		if err != nil {
			return nil, err
		}
		dropped = d
		mediaURLs = model.MediaList(urls)
		if mediaURLs == nil {
			mediaURLs = model.MediaList{}
		}
	}

	article := &model.Article{
		Title:         req.Title,
		Content:       req.Content,
		Categories:    model.CategoryList(req.Categories),
		MediaURLs:     mediaURLs,
		Status:        model.ArticleStatusPending,
		CreatedUserID: userID,
		CreatedAt:     time.Now(),
	}

	if err := s.articleRepo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	result := &dto.ArticleSubmitResultDTO{
		ID:           article.ID,
		DroppedMedia: dropped,
	}

	if err := s.engagementSvc.InitEngagement(ctx, article.ID); err != nil {
		log.ErrorContext(ctx, "engagement init incomplete",
			"article_id", article.ID, "err", err)
		result.PartialInit = true
		if rErr := redis.SAdd(ctx, consts.EngagementRepairKey, strconv.FormatUint(article.ID, 10)); rErr != nil {
			log.ErrorContext(ctx, "enqueue repair failed", "article_id", article.ID, "err", rErr)
		}
		return result, ErrEngagementInitIncomplete
	}

	return result, nil
}

func (s *articleServiceImpl) GetArticle(ctx context.Context, id uint64, userID string, isModerator bool) (*dto.ArticleDTO, error) {
	article, err := s.articleRepo.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	if article.Status != model.ArticleStatusPublished &&
		article.CreatedUserID != userID && !isModerator {
		return nil, ErrArticleNotFound
	}

	return convertToArticleDTO(article), nil
}

func (s *articleServiceImpl) ListPublished(ctx context.Context, cursor string, category, size int) (*dto.ArticleListDTO, error) {
	lastPublicDate, lastID, err := util.DecodeCursor(cursor)
	if err != nil {
		return nil, ErrCursorInvalid
	}
	if size <= 0 || size > consts.DefaultPageSize {
		size = consts.DefaultPageSize
	}

	articles, err := s.articleRepo.ListPublished(ctx, lastPublicDate, lastID, category, size+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(articles) > size
	if hasMore {
		articles = articles[:size]
	}

	res := &dto.ArticleListDTO{
		List:    make([]*dto.ArticleDTO, 0, len(articles)),
		HasMore: hasMore,
	}
	for _, article := range articles {
		res.List = append(res.List, convertToArticleDTO(article))
	}

	if hasMore {
		last := articles[len(articles)-1]
		if last.PublicDate != nil {
			res.NextCursor = util.EncodeCursor(*last.PublicDate, last.ID)
		}
	}
	return res, nil
}

func (s *articleServiceImpl) ListUnpublished(ctx context.Context) ([]*dto.ArticleDTO, error) {
	articles, err := s.articleRepo.ListUnpublished(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ArticleDTO, 0, len(articles))
	for _, article := range articles {
		res = append(res, convertToArticleDTO(article))
	}
	return res, nil
}

func (s *articleServiceImpl) SearchArticles(ctx context.Context, req *dto.ArticleSearchDTO) ([]*dto.ArticleDTO, error) {
	size := req.Size
	if size <= 0 {
		size = consts.DefaultPageSize
	}

	hits, err := s.esRepo.SearchArticles(ctx, req.Keyword, req.From, size)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ArticleDTO, 0, len(hits))
	for _, hit := range hits {
		item := &dto.ArticleDTO{
			Status: model.ArticleStatusPublished,
		}
		_ = copier.Copy(item, hit)
		item.PublicDate = hit.PublicDate.Format(time.DateTime)
		res = append(res, item)
	}
	return res, nil
}

func (s *articleServiceImpl) DeleteArticle(ctx context.Context, id uint64, userID string, isModerator bool) error {
	article, err := s.articleRepo.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}

	if article.CreatedUserID != userID && !isModerator {
		return UnauthorizedError
	}

	if err = s.articleRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	// 搜索索引和缓存清理失败不回滚删除，记日志即可
	if err = s.esRepo.DeleteArticle(ctx, id); err != nil {
		log.WarnContext(ctx, "delete article from search index failed", "article_id", id, "err", err)
	}
	idStr := strconv.FormatUint(id, 10)
	_ = redis.DeleteKey(ctx, consts.ArticleAccessKey+idStr)
	_ = redis.DeleteKey(ctx, consts.ArticleLikeKey+idStr)

	return nil
}

func convertToArticleDTO(article *model.Article) *dto.ArticleDTO {
	item := &dto.ArticleDTO{}
	_ = copier.Copy(item, article)
	item.CreatedAt = article.CreatedAt.Format(time.DateTime)
	if article.PublicDate != nil {
		item.PublicDate = article.PublicDate.Format(time.DateTime)
	}
	if item.Categories == nil {
		item.Categories = []int{}
	}
	if article.MediaURLs != nil && item.MediaURLs == nil {
		item.MediaURLs = []string{}
	}
	return item
}

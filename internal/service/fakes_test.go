package service

import (
	"Hitoiki/internal/model"
	"Hitoiki/internal/pkg/es"
	"Hitoiki/internal/pkg/mongo"
	"context"
	"errors"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 进程内假实现，行为对齐 MySQL 语义：
// 主键冲突返回 1062，自增命中零行返回 ErrRecordNotFound。

type fakeRatingRepo struct {
	mu        sync.Mutex
	history   map[uint64]*model.HistoryRating
	daily     map[uint64]*model.DailyRating
	aggregate map[uint64]*model.AggregatePoint

	failDailyCreate bool
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{
		history:   make(map[uint64]*model.HistoryRating),
		daily:     make(map[uint64]*model.DailyRating),
		aggregate: make(map[uint64]*model.AggregatePoint),
	}
}

func duplicateKeyErr() error {
	return &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func (f *fakeRatingRepo) CreateHistoryRating(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.history[articleID]; ok {
		return duplicateKeyErr()
	}
	f.history[articleID] = &model.HistoryRating{ArticleID: articleID}
	return nil
}

func (f *fakeRatingRepo) CreateDailyRating(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDailyCreate {
		return errors.New("connection refused")
	}
	if _, ok := f.daily[articleID]; ok {
		return duplicateKeyErr()
	}
	f.daily[articleID] = &model.DailyRating{ArticleID: articleID}
	return nil
}

func (f *fakeRatingRepo) CreateAggregatePoint(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.aggregate[articleID]; ok {
		return duplicateKeyErr()
	}
	f.aggregate[articleID] = &model.AggregatePoint{ArticleID: articleID}
	return nil
}

func (f *fakeRatingRepo) EnsureRatings(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.history[articleID]; !ok {
		f.history[articleID] = &model.HistoryRating{ArticleID: articleID}
	}
	if _, ok := f.daily[articleID]; !ok {
		f.daily[articleID] = &model.DailyRating{ArticleID: articleID}
	}
	if _, ok := f.aggregate[articleID]; !ok {
		f.aggregate[articleID] = &model.AggregatePoint{ArticleID: articleID}
	}
	return nil
}

func (f *fakeRatingRepo) IncrHistoryAccess(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.history[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.AccessCount++
	return nil
}

func (f *fakeRatingRepo) IncrHistoryLike(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.history[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.LikeCount++
	return nil
}

func (f *fakeRatingRepo) IncrDailyAccess(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.daily[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.AccessCount++
	return nil
}

func (f *fakeRatingRepo) IncrDailyLike(_ context.Context, articleID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.daily[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.LikeCount++
	return nil
}

func (f *fakeRatingRepo) GetHistoryRating(_ context.Context, articleID uint64) (*model.HistoryRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.history[articleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatingRepo) GetDailyRating(_ context.Context, articleID uint64) (*model.DailyRating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.daily[articleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatingRepo) GetAggregatePoint(_ context.Context, articleID uint64) (*model.AggregatePoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.aggregate[articleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRatingRepo) FoldIntoAggregate(_ context.Context, articleID uint64, access, like int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.aggregate[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.AccessTotal += access
	r.LikeTotal += like
	return nil
}

func (f *fakeRatingRepo) SubtractDaily(_ context.Context, articleID uint64, access, like int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.daily[articleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.AccessCount -= access
	r.LikeCount -= like
	return nil
}

type fakeUserLikeRepo struct {
	mu    sync.Mutex
	likes map[string]*model.UserLike
}

func newFakeUserLikeRepo() *fakeUserLikeRepo {
	return &fakeUserLikeRepo{likes: make(map[string]*model.UserLike)}
}

func likeKey(articleID uint64, userID string) string {
	return strconv.FormatUint(articleID, 10) + ":" + userID
}

func (f *fakeUserLikeRepo) CreateUserLike(_ context.Context, like *model.UserLike) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := likeKey(like.ArticleID, like.UserID)
	if _, ok := f.likes[key]; ok {
		return duplicateKeyErr()
	}
	cp := *like
	f.likes[key] = &cp
	return nil
}

func (f *fakeUserLikeRepo) IncrLikeCount(_ context.Context, articleID uint64, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	like, ok := f.likes[likeKey(articleID, userID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	like.LikeCount++
	like.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserLikeRepo) GetUserLike(_ context.Context, articleID uint64, userID string) (*model.UserLike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	like, ok := f.likes[likeKey(articleID, userID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *like
	return &cp, nil
}

func (f *fakeUserLikeRepo) CheckLikeExists(_ context.Context, articleID uint64, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.likes[likeKey(articleID, userID)]
	return ok, nil
}

type fakeArticleRepo struct {
	mu       sync.Mutex
	articles map[uint64]*model.Article
	nextID   uint64
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uint64]*model.Article), nextID: 1}
}

func (f *fakeArticleRepo) CreateArticle(_ context.Context, article *model.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article.ID = f.nextID
	f.nextID++
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeArticleRepo) GetArticle(_ context.Context, id uint64) (*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok || article.DeletedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *article
	return &cp, nil
}

func (f *fakeArticleRepo) ListPublished(_ context.Context, lastPublicDate *time.Time, lastID uint64, category int, limit int) ([]*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var res []*model.Article
	for _, article := range f.articles {
		if article.Status != model.ArticleStatusPublished || article.DeletedAt != nil || article.PublicDate == nil {
			continue
		}
		if category > 0 && !containsCategory(article.Categories, category) {
			continue
		}
		if lastPublicDate != nil {
			if article.PublicDate.After(*lastPublicDate) {
				continue
			}
			if article.PublicDate.Equal(*lastPublicDate) && article.ID >= lastID {
				continue
			}
		}
		cp := *article
		res = append(res, &cp)
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].PublicDate.Equal(*res[j].PublicDate) {
			return res[i].PublicDate.After(*res[j].PublicDate)
		}
		return res[i].ID > res[j].ID
	})

	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func containsCategory(categories model.CategoryList, category int) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func (f *fakeArticleRepo) ListUnpublished(_ context.Context) ([]*model.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.Article
	for _, article := range f.articles {
		if article.DeletedAt != nil {
			continue
		}
		if article.Status == model.ArticleStatusPending || article.Status == model.ArticleStatusRejected {
			cp := *article
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakeArticleRepo) MarkPublished(_ context.Context, id uint64, publicDate time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok || article.Status == model.ArticleStatusPublished {
		return false, nil
	}
	article.Status = model.ArticleStatusPublished
	article.PublicDate = &publicDate
	article.DeletedAt = nil
	return true, nil
}

func (f *fakeArticleRepo) MarkRejected(_ context.Context, id uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok || article.Status != model.ArticleStatusPending {
		return false, nil
	}
	article.Status = model.ArticleStatusRejected
	article.DeletedAt = nil
	return true, nil
}

func (f *fakeArticleRepo) SoftDelete(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return nil
	}
	now := time.Now()
	article.DeletedAt = &now
	return nil
}

type fakeESRepo struct {
	mu      sync.Mutex
	indexed map[uint64]*es.ArticleES
	deleted []uint64
}

func newFakeESRepo() *fakeESRepo {
	return &fakeESRepo{indexed: make(map[uint64]*es.ArticleES)}
}

func (f *fakeESRepo) IndexArticle(_ context.Context, article *es.ArticleES) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[article.ID] = article
	return nil
}

func (f *fakeESRepo) DeleteArticle(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeESRepo) SearchArticles(_ context.Context, _ string, _, _ int) ([]*es.ArticleES, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*es.ArticleES
	for _, article := range f.indexed {
		res = append(res, article)
	}
	return res, nil
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	sent []*mongo.Notification
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, msg *mongo.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *msg
	f.sent = append(f.sent, &cp)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationList(_ context.Context, userID string, _, _ int64) ([]*mongo.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*mongo.Notification
	for _, n := range f.sent {
		if n.ReceiverID == userID {
			res = append(res, n)
		}
	}
	return res, nil
}

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.sent {
		if n.ReceiverID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.sent {
		if n.ReceiverID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// fakeObjectStore 内容为 "fail" 的文件上传报错，其余记录后返回对象名
type fakeObjectStore struct {
	mu      sync.Mutex
	ready   bool
	objects map[string]string
	types   map[string]string
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		ready:   true,
		objects: make(map[string]string),
		types:   make(map[string]string),
	}
}

func (f *fakeObjectStore) Ready() bool {
	return f.ready
}

func (f *fakeObjectStore) Put(_ context.Context, objectName string, reader io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if string(data) == "fail" {
		return "", errors.New("storage write error")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectName] = string(data)
	f.types[objectName] = contentType
	return objectName, nil
}

func (f *fakeObjectStore) PublicURL(objectName string) string {
	return "https://media.test/" + objectName
}

package service

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/model"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestArticleService() (ArticleService, *fakeArticleRepo, *fakeESRepo, *fakeRatingRepo) {
	articleRepo := newFakeArticleRepo()
	esRepo := newFakeESRepo()
	ratingRepo := newFakeRatingRepo()
	engagementSvc := NewEngagementService(ratingRepo, newFakeUserLikeRepo())
	mediaSvc := NewMediaService(newFakeObjectStore())
	svc := NewArticleService(articleRepo, esRepo, mediaSvc, engagementSvc)
	return svc, articleRepo, esRepo, ratingRepo
}

func TestSubmitArticleWithoutMedia(t *testing.T) {
	t.Parallel()

	svc, articleRepo, _, ratingRepo := newTestArticleService()
	ctx := context.Background()

	result, err := svc.SubmitArticle(ctx, "author-1", &dto.ArticleCreateDTO{
		Title:      "朝の散歩",
		Content:    "公園で猫に会った。",
		Categories: []int{1},
	}, nil)
	if err != nil {
		t.Fatalf("SubmitArticle error: %v", err)
	}
	if result.PartialInit {
		t.Fatalf("unexpected partial init")
	}

	article, err := articleRepo.GetArticle(ctx, result.ID)
	if err != nil {
		t.Fatalf("article not stored: %v", err)
	}
	if article.Status != model.ArticleStatusPending {
		t.Fatalf("expected pending status, got %d", article.Status)
	}
	// 未附带媒体：nil，而不是空切片
	if article.MediaURLs != nil {
		t.Fatalf("expected nil media urls, got %v", article.MediaURLs)
	}

	// 三张投影都已建好且为零
	if _, err = ratingRepo.GetHistoryRating(ctx, result.ID); err != nil {
		t.Fatalf("history rating missing: %v", err)
	}
	if _, err = ratingRepo.GetDailyRating(ctx, result.ID); err != nil {
		t.Fatalf("daily rating missing: %v", err)
	}
	if _, err = ratingRepo.GetAggregatePoint(ctx, result.ID); err != nil {
		t.Fatalf("aggregate point missing: %v", err)
	}
}

func TestSubmitArticleDropsFailedMedia(t *testing.T) {
	t.Parallel()

	svc, articleRepo, _, _ := newTestArticleService()
	ctx := context.Background()

	assets := []*MediaAsset{
		{FileName: "one.mp4", MimeType: "video/mp4", Data: strings.NewReader("first")},
		{FileName: "two.mp4", MimeType: "video/mp4", Data: strings.NewReader("fail")},
		{FileName: "three.mp4", MimeType: "video/mp4", Data: strings.NewReader("third")},
	}

	result, err := svc.SubmitArticle(ctx, "author-1", &dto.ArticleCreateDTO{
		Title:   "猫の日常",
		Content: "三本撮ったけど一本は調子が悪い。",
	}, assets)
	if err != nil {
		t.Fatalf("SubmitArticle error: %v", err)
	}
	if result.DroppedMedia != 1 {
		t.Fatalf("expected 1 dropped media, got %d", result.DroppedMedia)
	}

	article, err := articleRepo.GetArticle(ctx, result.ID)
	if err != nil {
		t.Fatalf("article not stored: %v", err)
	}
	if len(article.MediaURLs) != 2 {
		t.Fatalf("expected 2 media urls, got %v", article.MediaURLs)
	}
}

func TestSubmitArticleAllMediaFailed(t *testing.T) {
	t.Parallel()

	svc, articleRepo, _, _ := newTestArticleService()
	ctx := context.Background()

	assets := []*MediaAsset{
		{FileName: "one.mp4", MimeType: "video/mp4", Data: strings.NewReader("fail")},
	}

	result, err := svc.SubmitArticle(ctx, "author-1", &dto.ArticleCreateDTO{
		Title:   "動画付き",
		Content: "本文",
	}, assets)
	if err != nil {
		t.Fatalf("SubmitArticle error: %v", err)
	}

	article, err := articleRepo.GetArticle(ctx, result.ID)
	if err != nil {
		t.Fatalf("article not stored: %v", err)
	}
	// 全部失敗：空切片，落库为 '[]' 而不是 NULL
	if article.MediaURLs == nil || len(article.MediaURLs) != 0 {
		t.Fatalf("expected empty media urls, got %v", article.MediaURLs)
	}
}

func TestSubmitArticlePartialEngagementInit(t *testing.T) {
	t.Parallel()

	articleRepo := newFakeArticleRepo()
	ratingRepo := newFakeRatingRepo()
	ratingRepo.failDailyCreate = true
	engagementSvc := NewEngagementService(ratingRepo, newFakeUserLikeRepo())
	svc := NewArticleService(articleRepo, newFakeESRepo(), NewMediaService(newFakeObjectStore()), engagementSvc)

	ctx := context.Background()

	result, err := svc.SubmitArticle(ctx, "author-1", &dto.ArticleCreateDTO{
		Title:   "タイトル",
		Content: "本文",
	}, nil)
	if !errors.Is(err, ErrEngagementInitIncomplete) {
		t.Fatalf("expected ErrEngagementInitIncomplete, got %v", err)
	}
	if result == nil || !result.PartialInit {
		t.Fatalf("expected partial init result, got %+v", result)
	}

	// 文章本身保留
	if _, err = articleRepo.GetArticle(ctx, result.ID); err != nil {
		t.Fatalf("article should survive partial init: %v", err)
	}
}

func TestListPublishedCursorPagination(t *testing.T) {
	t.Parallel()

	svc, articleRepo, _, _ := newTestArticleService()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		publicDate := base.Add(time.Duration(i) * time.Hour)
		article := &model.Article{
			Title:         fmt.Sprintf("記事%d", i),
			Content:       "本文",
			Status:        model.ArticleStatusPublished,
			CreatedUserID: "author-1",
			CreatedAt:     base,
			PublicDate:    &publicDate,
		}
		if err := articleRepo.CreateArticle(ctx, article); err != nil {
			t.Fatalf("seed article: %v", err)
		}
	}

	var seen []string
	cursor := ""
	pages := 0
	for {
		page, err := svc.ListPublished(ctx, cursor, 0, 2)
		if err != nil {
			t.Fatalf("ListPublished error: %v", err)
		}
		for _, item := range page.List {
			seen = append(seen, item.Title)
		}
		pages++
		if !page.HasMore {
			break
		}
		if page.NextCursor == "" {
			t.Fatalf("HasMore without cursor")
		}
		cursor = page.NextCursor
	}

	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(seen))
	}
	// 新しい順
	if seen[0] != "記事4" || seen[4] != "記事0" {
		t.Fatalf("unexpected order: %v", seen)
	}
}

func TestListPublishedInvalidCursor(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestArticleService()

	_, err := svc.ListPublished(context.Background(), "not-base64!!", 0, 10)
	if !errors.Is(err, ErrCursorInvalid) {
		t.Fatalf("expected ErrCursorInvalid, got %v", err)
	}
}

func TestGetArticleVisibility(t *testing.T) {
	t.Parallel()

	svc, articleRepo, _, _ := newTestArticleService()
	ctx := context.Background()

	article := &model.Article{
		Title:         "審査中の記事",
		Content:       "本文",
		Status:        model.ArticleStatusPending,
		CreatedUserID: "author-1",
		CreatedAt:     time.Now(),
	}
	if err := articleRepo.CreateArticle(ctx, article); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	// 他人には見えない
	if _, err := svc.GetArticle(ctx, article.ID, "someone-else", false); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound for stranger, got %v", err)
	}

	// 作者には見える
	if _, err := svc.GetArticle(ctx, article.ID, "author-1", false); err != nil {
		t.Fatalf("author should see own pending article: %v", err)
	}

	// 審査員にも見える
	if _, err := svc.GetArticle(ctx, article.ID, "mod-1", true); err != nil {
		t.Fatalf("moderator should see pending article: %v", err)
	}
}

func TestDeleteArticle(t *testing.T) {
	t.Parallel()

	svc, articleRepo, esRepo, _ := newTestArticleService()
	ctx := context.Background()

	publicDate := time.Now()
	article := &model.Article{
		Title:         "削除対象",
		Content:       "本文",
		Status:        model.ArticleStatusPublished,
		CreatedUserID: "author-1",
		CreatedAt:     time.Now(),
		PublicDate:    &publicDate,
	}
	if err := articleRepo.CreateArticle(ctx, article); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	// 他人は削除できない
	if err := svc.DeleteArticle(ctx, article.ID, "someone-else", false); !errors.Is(err, UnauthorizedError) {
		t.Fatalf("expected UnauthorizedError, got %v", err)
	}

	if err := svc.DeleteArticle(ctx, article.ID, "author-1", false); err != nil {
		t.Fatalf("DeleteArticle error: %v", err)
	}

	// 読み取り不可になる
	if _, err := svc.GetArticle(ctx, article.ID, "author-1", false); !errors.Is(err, ErrArticleNotFound) {
		t.Fatalf("deleted article should be invisible, got %v", err)
	}

	// 検索インデックスからも消える
	if len(esRepo.deleted) != 1 || esRepo.deleted[0] != article.ID {
		t.Fatalf("expected ES delete for %d, got %v", article.ID, esRepo.deleted)
	}
}

package es

import (
	"context"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// MaxSearchDepth 深分页保护
const MaxSearchDepth = 400

type ArticleRepo interface {
	IndexArticle(ctx context.Context, article *ArticleES) error
	DeleteArticle(ctx context.Context, id uint64) error
	SearchArticles(ctx context.Context, keyword string, from, size int) ([]*ArticleES, error)
}

type ArticleRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewArticleRepo(client *elasticsearch.TypedClient) ArticleRepo {
	return &ArticleRepoImpl{client: client}
}

func (s *ArticleRepoImpl) IndexArticle(ctx context.Context, article *ArticleES) error {
	_, err := s.client.Index(ArticleIndex).
		Id(strconv.FormatUint(article.ID, 10)).
		Document(article).
		Do(ctx)
	return errors.Wrap(err, "index article")
}

func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64) error {
	_, err := s.client.Delete(ArticleIndex, strconv.FormatUint(id, 10)).Do(ctx)
	return errors.Wrap(err, "delete article from index")
}

// SearchArticles 标题权重高于正文，无关键词时退化为公开时间倒序
func (s *ArticleRepoImpl) SearchArticles(ctx context.Context, keyword string, from, size int) ([]*ArticleES, error) {
	if from >= MaxSearchDepth {
		return []*ArticleES{}, nil
	}

	req := s.client.Search().Index(ArticleIndex).From(from).Size(size)

	if keyword != "" {
		req.Query(&types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"title^2", "content"},
			},
		})
	} else {
		req.Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"public_date": {Order: &sortorder.Desc},
		}})
	}

	res, err := req.Do(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "search articles")
	}

	articles := make([]*ArticleES, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var article ArticleES
		if err := json.Unmarshal(hit.Source_, &article); err != nil {
			continue
		}
		articles = append(articles, &article)
	}
	return articles, nil
}

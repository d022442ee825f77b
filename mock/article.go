package mock

import (
	"context"

	"github.com/fwojciec/horizon"
)

var _ horizon.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of horizon.ArticleService.
type ArticleService struct {
	FindArticleByURLFn func(ctx context.Context, url string) (*horizon.Article, error)
	FindArticlesFn     func(ctx context.Context, filter horizon.ArticleFilter) ([]*horizon.Article, error)
	UpsertArticleFn    func(ctx context.Context, article *horizon.Article) error
	DeleteArticleFn    func(ctx context.Context, url string) error
}

func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*horizon.Article, error) {
	return s.FindArticleByURLFn(ctx, url)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter horizon.ArticleFilter) ([]*horizon.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) UpsertArticle(ctx context.Context, article *horizon.Article) error {
	return s.UpsertArticleFn(ctx, article)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	return s.DeleteArticleFn(ctx, url)
}

var _ horizon.ArticleReader = (*ArticleReader)(nil)

// ArticleReader is a mock implementation of horizon.ArticleReader.
type ArticleReader struct {
	ReadArticleFn func(ctx context.Context, url, featuredImage string) (*horizon.Article, error)
}

func (r *ArticleReader) ReadArticle(ctx context.Context, url, featuredImage string) (*horizon.Article, error) {
	return r.ReadArticleFn(ctx, url, featuredImage)
}

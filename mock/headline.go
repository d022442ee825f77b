package mock

import (
	"context"

	"github.com/fwojciec/horizon"
)

var _ horizon.NewsSource = (*NewsSource)(nil)

// NewsSource is a mock implementation of horizon.NewsSource.
type NewsSource struct {
	TopHeadlinesFn func(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error)
	SearchFn       func(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error)
}

func (s *NewsSource) TopHeadlines(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
	return s.TopHeadlinesFn(ctx, q)
}

func (s *NewsSource) Search(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
	return s.SearchFn(ctx, q)
}

var _ horizon.HeadlineService = (*HeadlineService)(nil)

// HeadlineService is a mock implementation of horizon.HeadlineService.
type HeadlineService struct {
	UpsertHeadlinesFn func(ctx context.Context, headlines []*horizon.Headline) error
	FindHeadlinesFn   func(ctx context.Context, filter horizon.HeadlineFilter) ([]*horizon.Headline, error)
}

func (s *HeadlineService) UpsertHeadlines(ctx context.Context, headlines []*horizon.Headline) error {
	return s.UpsertHeadlinesFn(ctx, headlines)
}

func (s *HeadlineService) FindHeadlines(ctx context.Context, filter horizon.HeadlineFilter) ([]*horizon.Headline, error) {
	return s.FindHeadlinesFn(ctx, filter)
}

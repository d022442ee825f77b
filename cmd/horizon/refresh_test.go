package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/horizon"
	main "github.com/fwojciec/horizon/cmd/horizon"
	"github.com/fwojciec/horizon/crawl"
	"github.com/fwojciec/horizon/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("refreshes headlines and reports result", func(t *testing.T) {
		t.Parallel()

		news := &mock.NewsSource{
			TopHeadlinesFn: func(_ context.Context, _ horizon.HeadlineQuery) ([]*horizon.Headline, error) {
				return []*horizon.Headline{{Title: "Cached", URL: "https://example.com/cached"}}, nil
			},
			SearchFn: func(_ context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
				assert.Equal(t, "golang", q.Query)
				return nil, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Logger: discardLogger(),
			News:   news,
			Crawler: &crawl.Crawler{
				News: news,
				Headlines: &mock.HeadlineService{
					UpsertHeadlinesFn: func(_ context.Context, _ []*horizon.Headline) error { return nil },
				},
				Articles: &mock.ArticleService{
					FindArticleByURLFn: func(_ context.Context, url string) (*horizon.Article, error) {
						return &horizon.Article{SourceURL: url}, nil
					},
				},
			},
		}

		err := (&main.RefreshCmd{Query: []string{"golang"}, Concurrency: 2}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, 2, deps.Crawler.Concurrency)
		assert.Contains(t, stdout.String(), "Found 1 headlines")
		assert.Contains(t, stdout.String(), "1 headlines: 0 saved, 1 cached, 0 failed")
	})

	t.Run("requires news API key", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Crawler: &crawl.Crawler{},
		}

		err := (&main.RefreshCmd{}).Run(deps)

		assert.Equal(t, horizon.EUNAUTHORIZED, horizon.ErrorCode(err))
	})
}

package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/mock"
	hslog "github.com/fwojciec/horizon/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs article size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(html, sourceURL string) (*horizon.Article, error) {
				return &horizon.Article{
					SourceURL:   sourceURL,
					Blocks:      []horizon.Block{horizon.Paragraph("Hello"), horizon.Image("https://example.com/a.jpg", "")},
					Images:      []horizon.ImageRef{{URL: "https://example.com/a.jpg", Position: 1}},
					TextContent: "Hello",
				}, nil
			},
		}

		article, err := hslog.NewLoggingExtractor(inner, logger).Extract("<p>Hello</p>", "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "Hello", article.TextContent)
		output := buf.String()
		assert.Contains(t, output, "msg=extract")
		assert.Contains(t, output, "url=https://example.com/a")
		assert.Contains(t, output, "blocks=2")
		assert.Contains(t, output, "images=1")
		assert.Contains(t, output, "chars=5")
	})

	t.Run("logs error without article", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(html, sourceURL string) (*horizon.Article, error) {
				return nil, horizon.Errorf(horizon.EINVALID, "html required")
			},
		}

		_, err := hslog.NewLoggingExtractor(inner, logger).Extract("", "https://example.com/a")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "blocks=0")
		assert.Contains(t, output, "err=")
	})
}

func TestLoggingNewsSource(t *testing.T) {
	t.Parallel()

	t.Run("logs top headlines count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.NewsSource{
			TopHeadlinesFn: func(_ context.Context, _ horizon.HeadlineQuery) ([]*horizon.Headline, error) {
				return []*horizon.Headline{{URL: "https://example.com/1"}, {URL: "https://example.com/2"}}, nil
			},
		}

		headlines, err := hslog.NewLoggingNewsSource(inner, logger).TopHeadlines(context.Background(), horizon.HeadlineQuery{Category: "technology"})

		require.NoError(t, err)
		assert.Len(t, headlines, 2)
		output := buf.String()
		assert.Contains(t, output, "top headlines")
		assert.Contains(t, output, "category=technology")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs search query and error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.NewsSource{
			SearchFn: func(_ context.Context, _ horizon.HeadlineQuery) ([]*horizon.Headline, error) {
				return nil, errors.New("rate limited")
			},
		}

		_, err := hslog.NewLoggingNewsSource(inner, logger).Search(context.Background(), horizon.HeadlineQuery{Query: "rust"})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "search headlines")
		assert.Contains(t, output, "query=rust")
		assert.Contains(t, output, "err=\"rate limited\"")
	})
}

func TestLoggingMailer_Send(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Mailer{
		SendFn: func(_ context.Context, _ *horizon.Message) (string, error) {
			return "msg_123", nil
		},
	}

	id, err := hslog.NewLoggingMailer(inner, logger).Send(context.Background(), &horizon.Message{
		To:      []string{"reader@example.com"},
		Subject: "Your Daily Tech Digest",
		HTML:    "<p>secret body</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
	output := buf.String()
	assert.Contains(t, output, "to=reader@example.com")
	assert.Contains(t, output, "id=msg_123")
	assert.NotContains(t, output, "secret body")
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	const story = "https://news.example.com/story"

	t.Run("records size of the fetched page", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := hslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return "<p>" + url + "</p>", nil
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		html, err := f.Fetch(context.Background(), story)

		require.NoError(t, err)
		assert.Equal(t, "<p>"+story+"</p>", html)
		for _, want := range []string{"msg=fetch", "url=" + story, "bytes=37", "duration="} {
			assert.Contains(t, buf.String(), want)
		}
	})

	t.Run("records the failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		f := hslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("connection reset")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := f.Fetch(context.Background(), story)

		require.EqualError(t, err, "connection reset")
		assert.Contains(t, buf.String(), `err="connection reset"`)
		assert.Contains(t, buf.String(), "bytes=0")
	})

	t.Run("close reaches the wrapped fetcher", func(t *testing.T) {
		t.Parallel()

		var closed int
		f := hslog.NewLoggingFetcher(&mock.Fetcher{
			CloseFn: func() error { closed++; return nil },
		}, slog.New(slog.DiscardHandler))

		require.NoError(t, f.Close())
		assert.Equal(t, 1, closed)
	})
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/horizon"
)

// Ensure LoggingNewsSource implements horizon.NewsSource.
var _ horizon.NewsSource = (*LoggingNewsSource)(nil)

// LoggingNewsSource wraps a NewsSource with logging.
type LoggingNewsSource struct {
	next   horizon.NewsSource
	logger *slog.Logger
}

// NewLoggingNewsSource creates a new LoggingNewsSource.
func NewLoggingNewsSource(next horizon.NewsSource, logger *slog.Logger) *LoggingNewsSource {
	return &LoggingNewsSource{next: next, logger: logger}
}

// TopHeadlines delegates to the wrapped source and logs the result count.
func (s *LoggingNewsSource) TopHeadlines(ctx context.Context, q horizon.HeadlineQuery) (headlines []*horizon.Headline, err error) {
	defer func(begin time.Time) {
		s.logger.Info("top headlines",
			"category", q.Category,
			"count", len(headlines),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.TopHeadlines(ctx, q)
}

// Search delegates to the wrapped source and logs the result count.
func (s *LoggingNewsSource) Search(ctx context.Context, q horizon.HeadlineQuery) (headlines []*horizon.Headline, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search headlines",
			"query", q.Query,
			"count", len(headlines),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, q)
}

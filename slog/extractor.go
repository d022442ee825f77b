package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/horizon"
)

// Ensure LoggingExtractor implements horizon.Extractor.
var _ horizon.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   horizon.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next horizon.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the article size.
func (e *LoggingExtractor) Extract(html, sourceURL string) (article *horizon.Article, err error) {
	defer func(begin time.Time) {
		var blocks, images, chars int
		if article != nil {
			blocks, images, chars = len(article.Blocks), len(article.Images), article.Length()
		}
		e.logger.Info("extract",
			"url", sourceURL,
			"blocks", blocks,
			"images", images,
			"chars", chars,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, sourceURL)
}

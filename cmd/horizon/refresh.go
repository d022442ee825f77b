package main

import (
	"fmt"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/bloom"
	"github.com/fwojciec/horizon/crawl"
)

// Run executes the refresh command.
func (c *RefreshCmd) Run(deps *Dependencies) error {
	if err := requireNews(deps); err != nil {
		return err
	}

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}

	queries := c.Query
	if len(queries) == 0 && deps.Config != nil {
		queries = deps.Config.RefreshQueries
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d headlines\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, err := deps.Crawler.Refresh(deps.Ctx, queries, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error refreshing: %s\n", horizon.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "  %s\n", crawl.FormatResult(result))
	deps.Logger.Debug("refresh done", "seen", seenCount(deps.Crawler))
	return nil
}

// seenCount estimates how many URLs the crawler has handled in this process.
func seenCount(c *crawl.Crawler) uint {
	if f, ok := c.Seen.(*bloom.Filter); ok {
		return f.EstimatedCount()
	}
	return 0
}

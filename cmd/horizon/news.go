package main

import (
	"fmt"

	"github.com/fwojciec/horizon"
)

// Run executes the news command.
func (c *NewsCmd) Run(deps *Dependencies) error {
	var (
		headlines []*horizon.Headline
		err       error
	)
	switch {
	case c.Cached:
		filter := horizon.HeadlineFilter{Limit: c.Limit}
		if c.Query != "" {
			filter.Query = &c.Query
		}
		headlines, err = deps.Headlines.FindHeadlines(deps.Ctx, filter)
	case c.Query != "":
		if err := requireNews(deps); err != nil {
			return err
		}
		headlines, err = deps.News.Search(deps.Ctx, horizon.HeadlineQuery{Query: c.Query, PageSize: c.Limit})
	default:
		if err := requireNews(deps); err != nil {
			return err
		}
		headlines, err = deps.News.TopHeadlines(deps.Ctx, horizon.HeadlineQuery{PageSize: c.Limit})
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}

	if c.Limit > 0 && len(headlines) > c.Limit {
		headlines = headlines[:c.Limit]
	}
	if len(headlines) == 0 {
		fmt.Fprintln(deps.Stdout, "No headlines found.")
		return nil
	}

	if !c.Cached {
		if err := deps.Headlines.UpsertHeadlines(deps.Ctx, headlines); err != nil {
			deps.Logger.Warn("caching headlines", "err", err)
		}
	}

	fmt.Fprint(deps.Stdout, horizon.FormatHeadlines(headlines))
	return nil
}

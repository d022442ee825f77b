package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/horizon/crawl"
	"github.com/fwojciec/horizon/cron"
	horizonhttp "github.com/fwojciec/horizon/http"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if err := requireNews(deps); err != nil {
		return err
	}
	cfg := deps.Config

	s := horizonhttp.NewServer()
	s.Addr = cfg.Addr
	s.BaseURL = cfg.BaseURL
	s.CronSecret = cfg.CronSecret
	s.Logger = deps.Logger
	s.News = deps.News
	s.Headlines = deps.Headlines
	s.Articles = deps.Articles
	s.Reader = deps.Crawler
	s.Renderer = deps.Renderer
	s.Subscribers = deps.Subscribers
	s.Digests = deps.Digests
	s.Location = cfg.Location

	sched := cron.NewScheduler(deps.Logger, cfg.Location, cron.WithTimeout(cfg.JobTimeout))
	if deps.Digests != nil {
		if err := sched.Add("digest", cfg.DigestSpec, cron.DigestJob(deps.Digests, sched.Location())); err != nil {
			return fmt.Errorf("digest schedule: %w", err)
		}
	} else {
		deps.Logger.Warn("RESEND_API_KEY not set, digests disabled")
	}
	if cfg.RefreshSpec != "" {
		refresh := func(ctx context.Context) error {
			r, err := deps.Crawler.Refresh(ctx, cfg.RefreshQueries, nil)
			if err != nil {
				return err
			}
			deps.Logger.Info("refresh", "result", crawl.FormatResult(r), "seen", seenCount(deps.Crawler))
			return nil
		}
		if err := sched.Add("refresh", cfg.RefreshSpec, refresh); err != nil {
			return fmt.Errorf("refresh schedule: %w", err)
		}
	}

	if err := s.Open(); err != nil {
		return err
	}
	sched.Start()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())
	for _, e := range sched.Entries() {
		fmt.Fprintf(deps.Stdout, "  %s: %s\n", e.Name, e.Spec)
	}

	// Warm the article cache instead of waiting for the first tick.
	if cfg.RefreshSpec != "" && cfg.RefreshOnStart {
		go func() { _ = sched.RunNow(deps.Ctx, "refresh") }()
	}

	<-deps.Ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), horizonhttp.ShutdownTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		deps.Logger.Warn("stopping scheduler", "err", err)
	}
	return s.Close()
}

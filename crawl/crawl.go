// Package crawl coordinates headline refreshes and on-demand article reads.
// It fetches publisher pages, extracts articles and caches the results.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/horizon"
	"golang.org/x/sync/errgroup"
)

// DefaultMinArticleLength is the text length below which an article fetched
// over plain HTTP is retried with the browser, when one is configured.
const DefaultMinArticleLength = 500

// Ensure Crawler implements horizon.ArticleReader at compile time.
var _ horizon.ArticleReader = (*Crawler)(nil)

// Crawler fetches, extracts and caches publisher articles.
type Crawler struct {
	News      horizon.NewsSource
	Headlines horizon.HeadlineService
	Articles  horizon.ArticleService
	Fetcher   horizon.Fetcher
	Extractor horizon.Extractor

	// Browser, if set, renders pages the plain fetcher could not retrieve or
	// that yielded too little text.
	Browser horizon.Fetcher

	// RateLimiter, if set, throttles requests per publisher host.
	RateLimiter horizon.DomainLimiter

	// Seen, if set, remembers URLs extracted by this process so that
	// repeated refreshes skip them without a database lookup.
	Seen horizon.URLSet

	// Log, if set, receives retry attempts and cache write failures.
	Log LogFunc

	Concurrency      int
	RetryDelays      []time.Duration
	MinArticleLength int
}

// Result holds the outcome of a refresh.
type Result struct {
	Headlines int
	Saved     int
	Cached    int
	Failed    int
	Bytes     int
}

// ProgressEvent reports progress during a refresh.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressCached
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting refresh progress.
type ProgressFunc func(event ProgressEvent)

// ReadArticle returns the cached article for rawURL or fetches, extracts and
// caches it. A failure to write the cache is logged and the freshly
// extracted article is still returned.
func (c *Crawler) ReadArticle(ctx context.Context, rawURL, featuredImage string) (*horizon.Article, error) {
	article, _, err := c.read(ctx, rawURL, featuredImage)
	return article, err
}

// read is ReadArticle that also reports whether the article came from cache.
func (c *Crawler) read(ctx context.Context, rawURL, featuredImage string) (*horizon.Article, bool, error) {
	u, err := parseArticleURL(rawURL)
	if err != nil {
		return nil, false, err
	}

	cached, err := c.Articles.FindArticleByURL(ctx, rawURL)
	switch {
	case err == nil:
		if featuredImage != "" {
			cached.FeaturedImage = featuredImage
		}
		c.markSeen(rawURL)
		return cached, true, nil
	case horizon.ErrorCode(err) != horizon.ENOTFOUND:
		return nil, false, err
	}

	article, err := c.fetchArticle(ctx, u)
	if err != nil {
		return nil, false, err
	}
	article.SourceURL = rawURL
	if featuredImage != "" {
		article.FeaturedImage = featuredImage
	}
	article.FetchedAt = time.Now().UTC()

	if err := c.Articles.UpsertArticle(ctx, article); err != nil {
		c.logf("  cache %s: %v", rawURL, err)
		return article, false, nil
	}
	c.markSeen(rawURL)
	return article, false, nil
}

// fetchArticle retrieves and extracts the page, falling back to the browser
// when the plain fetch fails or the article is thin.
func (c *Crawler) fetchArticle(ctx context.Context, u *url.URL) (*horizon.Article, error) {
	html, err := c.fetch(ctx, c.Fetcher, u)
	if err != nil {
		if c.Browser == nil {
			return nil, err
		}
		return c.browse(ctx, u)
	}

	article, err := c.Extractor.Extract(html, u.String())
	if err != nil {
		return nil, err
	}

	if c.Browser != nil && article.Length() < c.minArticleLength() {
		if rendered, err := c.browse(ctx, u); err == nil && ContentDiffers(article, rendered) {
			return rendered, nil
		}
	}
	return article, nil
}

func (c *Crawler) browse(ctx context.Context, u *url.URL) (*horizon.Article, error) {
	html, err := c.fetch(ctx, c.Browser, u)
	if err != nil {
		return nil, err
	}
	return c.Extractor.Extract(html, u.String())
}

// fetch waits for the host's rate limit and fetches with retry.
func (c *Crawler) fetch(ctx context.Context, f horizon.Fetcher, u *url.URL) (string, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetryDelays(ctx, u.String(), f.Fetch, c.Log, delays)
}

func (c *Crawler) logf(format string, args ...any) {
	if c.Log != nil {
		c.Log(format, args...)
	}
}

func (c *Crawler) markSeen(rawURL string) {
	if c.Seen != nil {
		c.Seen.Add(rawURL)
	}
}

func (c *Crawler) minArticleLength() int {
	if c.MinArticleLength > 0 {
		return c.MinArticleLength
	}
	return DefaultMinArticleLength
}

// outcome holds the result of reading a single headline's article.
type outcome struct {
	url    string
	cached bool
	bytes  int
	err    error
}

// Refresh pulls top headlines plus the results of each search query, caches
// them and pre-extracts every linked article. Article failures are counted,
// not returned.
func (c *Crawler) Refresh(ctx context.Context, queries []string, progress ProgressFunc) (*Result, error) {
	headlines, err := c.collectHeadlines(ctx, queries)
	if err != nil {
		return nil, err
	}
	if err := c.Headlines.UpsertHeadlines(ctx, headlines); err != nil {
		return nil, fmt.Errorf("saving headlines: %w", err)
	}

	result := &Result{Headlines: len(headlines)}
	total := len(headlines)
	notify := func(e ProgressEvent) {
		if progress != nil {
			progress(e)
		}
	}
	notify(ProgressEvent{Type: ProgressStarted, Total: total})

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	outcomes := make(chan outcome, total)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, h := range headlines {
			g.Go(func() error {
				outcomes <- c.prefetch(gctx, h)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	var completed atomic.Int64
	for o := range outcomes {
		n := int(completed.Add(1))
		switch {
		case o.err != nil:
			result.Failed++
			notify(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, URL: o.url, Error: o.err})
		case o.cached:
			result.Cached++
			notify(ProgressEvent{Type: ProgressCached, Completed: n, Total: total, URL: o.url})
		default:
			result.Saved++
			result.Bytes += o.bytes
			notify(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, URL: o.url})
		}
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	return result, ctx.Err()
}

func (c *Crawler) prefetch(ctx context.Context, h *horizon.Headline) outcome {
	if c.Seen != nil && c.Seen.Test(h.URL) {
		return outcome{url: h.URL, cached: true}
	}
	article, cached, err := c.read(ctx, h.URL, h.URLToImage)
	if err != nil {
		return outcome{url: h.URL, err: err}
	}
	return outcome{url: h.URL, cached: cached, bytes: len(article.TextContent)}
}

// collectHeadlines merges top headlines and search results, first
// occurrence of a URL wins.
func (c *Crawler) collectHeadlines(ctx context.Context, queries []string) ([]*horizon.Headline, error) {
	top, err := c.News.TopHeadlines(ctx, horizon.HeadlineQuery{})
	if err != nil {
		return nil, fmt.Errorf("top headlines: %w", err)
	}

	headlines := make([]*horizon.Headline, 0, len(top))
	seen := make(map[string]bool)
	add := func(hs []*horizon.Headline) {
		for _, h := range hs {
			if seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			headlines = append(headlines, h)
		}
	}
	add(top)

	for _, q := range queries {
		found, err := c.News.Search(ctx, horizon.HeadlineQuery{Query: q})
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", q, err)
		}
		add(found)
	}
	return headlines, nil
}

// parseArticleURL accepts only absolute http(s) URLs.
func parseArticleURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, horizon.Errorf(horizon.EINVALID, "invalid article URL %q", rawURL)
	}
	return u, nil
}

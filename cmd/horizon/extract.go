package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/crawl"
	"github.com/fwojciec/horizon/fs"
)

// Run executes the extract command. Nothing is written to the cache.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	extractor, ok := deps.Extractors[c.Engine]
	if !ok {
		fmt.Fprintf(deps.Stderr, "error: unknown engine %q\n", c.Engine)
		return horizon.Errorf(horizon.EINVALID, "unknown engine %q", c.Engine)
	}

	logf := func(format string, args ...any) {
		fmt.Fprintf(deps.Stderr, format+"\n", args...)
	}
	html, err := crawl.FetchWithRetry(deps.Ctx, c.URL, deps.Fetcher.Fetch, logf)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: fetching %s: %v\n", c.URL, err)
		return err
	}

	article, err := extractor.Extract(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}
	article.SourceURL = c.URL
	article.FetchedAt = time.Now().UTC()

	return writeArticle(deps, deps.Stdout, article, c.Format)
}

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	article, err := deps.Crawler.ReadArticle(deps.Ctx, c.URL, c.Image)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}
	return writeArticle(deps, deps.Stdout, article, c.Format)
}

// writeArticle prints article as markdown with front matter, sanitized HTML
// or JSON.
func writeArticle(deps *Dependencies, w io.Writer, article *horizon.Article, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(article)
	}

	html, err := deps.Renderer.Render(article)
	if err != nil {
		return err
	}
	if format == "html" {
		_, err := fmt.Fprintln(w, html)
		return err
	}

	md, err := deps.Converter.Convert(html)
	if err != nil {
		return err
	}
	doc, err := fs.FormatArticle(article, md)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, doc)
	return err
}

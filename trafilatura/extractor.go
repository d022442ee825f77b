// Package trafilatura extracts articles with go-trafilatura, which falls back
// to readability and dom-distiller on pages its own heuristics cannot read.
package trafilatura

import (
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

var _ horizon.Extractor = (*Extractor)(nil)

// Extractor is a horizon.Extractor backed by go-trafilatura.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor returns an Extractor with fallback extraction enabled and
// images kept in the content.
func NewExtractor() *Extractor {
	return &Extractor{opts: trafilatura.Options{
		EnableFallback: true,
		IncludeImages:  true,
	}}
}

// Extract returns the article found in rawHTML.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*horizon.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, horizon.Errorf(horizon.EINVALID, "html required")
	}

	opts := e.opts
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if result.ContentNode != nil {
		if err := html.Render(&b, result.ContentNode); err != nil {
			return nil, err
		}
	}
	content, err := goquery.NormalizeHTML(b.String(), sourceURL)
	if err != nil {
		return nil, err
	}

	return goquery.NewArticle(sourceURL, metadata(result.Metadata), content), nil
}

func metadata(m trafilatura.Metadata) horizon.Metadata {
	meta := horizon.Metadata{
		Title:       strings.TrimSpace(m.Title),
		SiteName:    strings.TrimSpace(m.Sitename),
		Description: strings.TrimSpace(m.Description),
		Image:       strings.TrimSpace(m.Image),
		Author:      strings.TrimSpace(m.Author),
	}
	if !m.Date.IsZero() {
		meta.PublishedAt = m.Date.Format(time.RFC3339)
	}
	return meta
}

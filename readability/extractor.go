// Package readability extracts articles with go-readability, the Mozilla
// Readability port, and normalizes its output into blocks.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements horizon.Extractor at compile time.
var _ horizon.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*horizon.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, horizon.Errorf(horizon.EINVALID, "html required")
	}

	// A nil page URL leaves relative links for the normalizer to resolve.
	pageURL, err := url.Parse(sourceURL)
	if err != nil || pageURL.Host == "" {
		pageURL = nil
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return nil, err
	}

	content, err := goquery.NormalizeHTML(article.Content, sourceURL)
	if err != nil {
		return nil, err
	}

	return goquery.NewArticle(sourceURL, horizon.Metadata{
		Title:       strings.TrimSpace(article.Title),
		SiteName:    strings.TrimSpace(article.SiteName),
		Description: strings.TrimSpace(article.Excerpt),
		Author:      strings.TrimSpace(article.Byline),
	}, content), nil
}

// Package opengraph reads OpenGraph metadata from publisher pages.
package opengraph

import (
	"strings"
	"time"

	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/fwojciec/horizon"
)

// Ensure Parser implements horizon.MetadataParser at compile time.
var _ horizon.MetadataParser = (*Parser)(nil)

// Parser extracts og:* tags.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseMetadata returns the page's OpenGraph title, site name, description,
// first image and, for og:type=article pages, the publication time.
func (p *Parser) ParseMetadata(html string) (*horizon.Metadata, error) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(html)); err != nil {
		return nil, horizon.Errorf(horizon.EINVALID, "failed to parse OpenGraph tags: %v", err)
	}

	meta := &horizon.Metadata{
		Title:       strings.TrimSpace(og.Title),
		SiteName:    strings.TrimSpace(og.SiteName),
		Description: strings.TrimSpace(og.Description),
	}
	for _, img := range og.Images {
		if img == nil {
			continue
		}
		if u := firstNonEmpty(img.SecureURL, img.URL); u != "" {
			meta.Image = u
			break
		}
	}
	if og.Article != nil && og.Article.PublishedTime != nil {
		meta.PublishedAt = og.Article.PublishedTime.UTC().Format(time.RFC3339)
	}
	return meta, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

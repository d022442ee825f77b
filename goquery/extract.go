// Package goquery implements article extraction with CSS selectors.
//
// Extraction runs in four steps: Strip removes boilerplate, Locate picks the
// subtree holding the article, Normalize flattens it into blocks and
// ResolveImageURL makes image sources absolute.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/horizon"
)

// ExcerptLength is the length of excerpts derived from article text.
const ExcerptLength = 200

// Ensure Extractor implements horizon.Extractor at compile time.
var _ horizon.Extractor = (*Extractor)(nil)

// Extractor extracts articles from publisher HTML.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	hints    []string
	markers  []string
	metadata horizon.MetadataParser
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContentHints replaces the selectors tried after <article>.
// Defaults to DefaultContentHints.
func WithContentHints(hints ...string) Option {
	return func(e *Extractor) {
		e.hints = hints
	}
}

// WithNoiseMarkers replaces the class/id substrings that mark boilerplate.
// Defaults to DefaultNoiseMarkers.
func WithNoiseMarkers(markers ...string) Option {
	return func(e *Extractor) {
		e.markers = markers
	}
}

// WithMetadataParser sets a parser whose results take precedence over the
// extractor's own meta tag lookups.
func WithMetadataParser(p horizon.MetadataParser) Option {
	return func(e *Extractor) {
		e.metadata = p
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		hints:   DefaultContentHints,
		markers: DefaultNoiseMarkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract strips, locates and normalizes the article in rawHTML.
func (e *Extractor) Extract(rawHTML, sourceURL string) (*horizon.Article, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, horizon.Errorf(horizon.EINVALID, "html required")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, horizon.Errorf(horizon.EINVALID, "failed to parse HTML: %v", err)
	}

	parsed := e.parseMetadata(rawHTML)

	Strip(doc, e.markers)
	root, _ := Locate(doc, e.hints)
	content := Normalize(root, sourceURL)
	meta := readMetadata(doc, parsed, sourceURL)

	return NewArticle(sourceURL, meta, content), nil
}

// parseMetadata runs the optional metadata parser. Its failure is not fatal
// because the document's own meta tags are consulted afterwards.
func (e *Extractor) parseMetadata(rawHTML string) *horizon.Metadata {
	if e.metadata == nil {
		return &horizon.Metadata{}
	}
	meta, err := e.metadata.ParseMetadata(rawHTML)
	if err != nil || meta == nil {
		return &horizon.Metadata{}
	}
	return meta
}

// NewArticle assembles an article from page metadata and normalized content.
// A featured image from metadata is kept only if it resolves to an
// absolute, non-tracking URL. A missing site name falls back to the host.
func NewArticle(sourceURL string, meta horizon.Metadata, content *Content) *horizon.Article {
	if meta.SiteName == "" {
		meta.SiteName = hostName(sourceURL)
	}
	excerpt := meta.Description
	if excerpt == "" {
		excerpt = horizon.Excerpt(content.Text, ExcerptLength)
	}

	var featured string
	if meta.Image != "" {
		if u, ok := ResolveImageURL(meta.Image, sourceURL); ok && isAbsoluteHTTP(u) {
			featured = u
		}
	}

	blocks := content.Blocks
	if blocks == nil {
		blocks = []horizon.Block{}
	}
	images := content.Images
	if images == nil {
		images = []horizon.ImageRef{}
	}

	return &horizon.Article{
		SourceURL:     sourceURL,
		Title:         meta.Title,
		SiteName:      meta.SiteName,
		Author:        meta.Author,
		PublishedAt:   meta.PublishedAt,
		Excerpt:       excerpt,
		FeaturedImage: featured,
		Blocks:        blocks,
		Images:        images,
		TextContent:   content.Text,
	}
}

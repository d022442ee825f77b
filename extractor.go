package horizon

// Extractor extracts readable article content from HTML pages.
type Extractor interface {
	// Extract processes raw HTML fetched from sourceURL and returns the
	// article. Relative image and link URLs are resolved against sourceURL.
	// Returns EINVALID for empty input. Pages without a recognizable article
	// still produce a best-effort result, possibly with no blocks.
	Extract(html string, sourceURL string) (*Article, error)
}

// Metadata holds page-level metadata found in meta tags.
type Metadata struct {
	Title       string
	SiteName    string
	Description string
	Image       string
	Author      string
	PublishedAt string
}

// MetadataParser reads page metadata such as OpenGraph tags.
type MetadataParser interface {
	ParseMetadata(html string) (*Metadata, error)
}

package mock

import "github.com/fwojciec/horizon"

var _ horizon.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of horizon.Extractor.
type Extractor struct {
	ExtractFn func(html, sourceURL string) (*horizon.Article, error)
}

func (e *Extractor) Extract(html, sourceURL string) (*horizon.Article, error) {
	return e.ExtractFn(html, sourceURL)
}

var _ horizon.MetadataParser = (*MetadataParser)(nil)

// MetadataParser is a mock implementation of horizon.MetadataParser.
type MetadataParser struct {
	ParseMetadataFn func(html string) (*horizon.Metadata, error)
}

func (p *MetadataParser) ParseMetadata(html string) (*horizon.Metadata, error) {
	return p.ParseMetadataFn(html)
}

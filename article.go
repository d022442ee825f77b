package horizon

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

// BlockKind identifies the variant of a content Block.
type BlockKind string

// Block kinds.
const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockImage     BlockKind = "image"
)

// Block is one normalized unit of article content. Only the fields that
// belong to Kind are set:
//
//	heading:   Level (2 or 3), Text
//	paragraph: HTML
//	list:      Items
//	image:     URL, Caption
type Block struct {
	Kind    BlockKind `json:"kind"`
	Level   int       `json:"level,omitempty"`
	Text    string    `json:"text,omitempty"`
	HTML    string    `json:"html,omitempty"`
	Items   []string  `json:"items,omitempty"`
	URL     string    `json:"url,omitempty"`
	Caption string    `json:"caption,omitempty"`
}

// Heading returns a heading block.
func Heading(level int, text string) Block {
	return Block{Kind: BlockHeading, Level: level, Text: text}
}

// Paragraph returns a paragraph block holding an HTML fragment.
// The fragment comes from a third-party page and is not sanitized.
func Paragraph(html string) Block {
	return Block{Kind: BlockParagraph, HTML: html}
}

// List returns a list block.
func List(items ...string) Block {
	return Block{Kind: BlockList, Items: items}
}

// Image returns an image block. Caption may be empty.
func Image(url, caption string) Block {
	return Block{Kind: BlockImage, URL: url, Caption: caption}
}

// ImageRef records an image discovered during extraction.
// Position is the index of the image block in Article.Blocks.
type ImageRef struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
	Caption  string `json:"caption,omitempty"`
}

// Article is the readable content extracted from a publisher page.
// An Article is built once per (html, url) pair and not mutated afterwards.
type Article struct {
	ID            string     `json:"id,omitempty"`
	SourceURL     string     `json:"sourceUrl"`
	Title         string     `json:"title"`
	SiteName      string     `json:"siteName"`
	Author        string     `json:"author,omitempty"`
	PublishedAt   string     `json:"publishedAt,omitempty"`
	Excerpt       string     `json:"excerpt,omitempty"`
	FeaturedImage string     `json:"featuredImage,omitempty"`
	Blocks        []Block    `json:"blocks"`
	Images        []ImageRef `json:"images"`
	TextContent   string     `json:"textContent"`
	ContentHash   string     `json:"contentHash,omitempty"`
	FetchedAt     time.Time  `json:"fetchedAt"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.SourceURL == "" {
		return Errorf(EINVALID, "article source URL required")
	}
	return nil
}

// Length returns the number of characters in the article text.
func (a *Article) Length() int {
	return utf8.RuneCountInString(a.TextContent)
}

// Excerpt returns the first n characters of text on a word boundary,
// with an ellipsis appended when the text was cut.
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// ArticleService represents a service for caching extracted articles.
type ArticleService interface {
	// FindArticleByURL retrieves a cached article by its source URL.
	// Returns ENOTFOUND if the article has not been cached.
	FindArticleByURL(ctx context.Context, url string) (*Article, error)

	// FindArticles retrieves cached articles matching the filter.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// UpsertArticle stores the article keyed by source URL, replacing any
	// previously cached copy.
	UpsertArticle(ctx context.Context, article *Article) error

	// DeleteArticle removes a cached article.
	// Returns ENOTFOUND if the article does not exist.
	DeleteArticle(ctx context.Context, url string) error
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	SiteName *string `json:"siteName"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ArticleReader returns readable articles by URL.
type ArticleReader interface {
	// ReadArticle returns the cached article for url, fetching and
	// extracting the page on a cache miss. A non-empty featuredImage
	// replaces the featured image found on the page.
	// Returns EINVALID if url is not an absolute http(s) URL.
	ReadArticle(ctx context.Context, url, featuredImage string) (*Article, error)
}

package horizon

import (
	"context"
	"time"
)

// Headline is a news item as listed by a news API.
type Headline struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Author      string    `json:"author,omitempty"`
	SourceName  string    `json:"sourceName"`
	Content     string    `json:"content,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the headline contains invalid fields.
func (h *Headline) Validate() error {
	if h.URL == "" {
		return Errorf(EINVALID, "headline URL required")
	}
	if h.Title == "" {
		return Errorf(EINVALID, "headline title required")
	}
	return nil
}

// HeadlineQuery parameterizes a news API request.
type HeadlineQuery struct {
	// Query is a free-text search. Ignored by TopHeadlines.
	Query    string
	Category string
	Language string
	PageSize int
}

// NewsSource lists headlines from a news API.
type NewsSource interface {
	// TopHeadlines returns the current top headlines for the category.
	TopHeadlines(ctx context.Context, q HeadlineQuery) ([]*Headline, error)

	// Search returns headlines matching q.Query, newest first.
	// Returns EINVALID if the query is empty.
	Search(ctx context.Context, q HeadlineQuery) ([]*Headline, error)
}

// HeadlineService represents a service for caching headlines.
type HeadlineService interface {
	// UpsertHeadlines stores headlines keyed by URL.
	UpsertHeadlines(ctx context.Context, headlines []*Headline) error

	// FindHeadlines retrieves cached headlines, newest first.
	FindHeadlines(ctx context.Context, filter HeadlineFilter) ([]*Headline, error)
}

// HeadlineFilter represents a filter for FindHeadlines.
type HeadlineFilter struct {
	// Query matches a substring of the title or description.
	Query *string `json:"query"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

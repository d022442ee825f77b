package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ horizon.HeadlineService = (*HeadlineService)(nil)

// HeadlineService implements horizon.HeadlineService using SQLite.
type HeadlineService struct {
	db *DB
}

// NewHeadlineService creates a new HeadlineService.
func NewHeadlineService(db *DB) *HeadlineService {
	return &HeadlineService{db: db}
}

const headlineColumns = `id, url, title, description, url_to_image, published_at, author,
	source_name, content, fetched_at`

// UpsertHeadlines stores headlines in a single transaction. Headlines are
// keyed by URL; an existing row keeps its ID.
func (s *HeadlineService) UpsertHeadlines(ctx context.Context, headlines []*horizon.Headline) error {
	for _, h := range headlines {
		if err := h.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, h := range headlines {
		if h.FetchedAt.IsZero() {
			h.FetchedAt = now
		}
		err := tx.QueryRowContext(ctx, `
			INSERT INTO headlines (`+headlineColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(url) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				url_to_image = excluded.url_to_image,
				published_at = excluded.published_at,
				author = excluded.author,
				source_name = excluded.source_name,
				content = excluded.content,
				fetched_at = excluded.fetched_at
			RETURNING id
		`, uuid.New().String(), h.URL, h.Title, h.Description, h.URLToImage, formatTime(h.PublishedAt),
			h.Author, h.SourceName, h.Content, h.FetchedAt.UTC().Format(time.RFC3339),
		).Scan(&h.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindHeadlines retrieves cached headlines, newest first.
func (s *HeadlineService) FindHeadlines(ctx context.Context, filter horizon.HeadlineFilter) ([]*horizon.Headline, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + headlineColumns + ` FROM headlines WHERE 1=1`)
	if filter.Query != nil && *filter.Query != "" {
		like := "%" + *filter.Query + "%"
		query.WriteString(" AND (title LIKE ? OR description LIKE ?)")
		args = append(args, like, like)
	}
	query.WriteString(" ORDER BY published_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headlines []*horizon.Headline
	for rows.Next() {
		var h horizon.Headline
		var publishedAt, fetchedAt string
		if err := rows.Scan(&h.ID, &h.URL, &h.Title, &h.Description, &h.URLToImage, &publishedAt,
			&h.Author, &h.SourceName, &h.Content, &fetchedAt); err != nil {
			return nil, err
		}
		if h.PublishedAt, err = parseTime("published_at", publishedAt); err != nil {
			return nil, err
		}
		if h.FetchedAt, err = parseTime("fetched_at", fetchedAt); err != nil {
			return nil, err
		}
		headlines = append(headlines, &h)
	}
	return headlines, rows.Err()
}

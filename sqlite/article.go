package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/horizon"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ horizon.ArticleService = (*ArticleService)(nil)

// ArticleService implements horizon.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

const articleColumns = `id, source_url, title, site_name, author, published_at, excerpt,
	featured_image, blocks, images, text_content, content_hash, fetched_at`

// UpsertArticle stores the article, replacing any cached copy for the same
// source URL. The ID of an existing row is kept.
func (s *ArticleService) UpsertArticle(ctx context.Context, article *horizon.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	blocks, err := json.Marshal(nonNilBlocks(article.Blocks))
	if err != nil {
		return fmt.Errorf("failed to encode blocks: %w", err)
	}
	images, err := json.Marshal(nonNilImages(article.Images))
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}
	article.ContentHash = hashContent(article.TextContent)

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			title = excluded.title,
			site_name = excluded.site_name,
			author = excluded.author,
			published_at = excluded.published_at,
			excerpt = excluded.excerpt,
			featured_image = excluded.featured_image,
			blocks = excluded.blocks,
			images = excluded.images,
			text_content = excluded.text_content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, uuid.New().String(), article.SourceURL, article.Title, article.SiteName, article.Author,
		article.PublishedAt, article.Excerpt, article.FeaturedImage, string(blocks), string(images),
		article.TextContent, article.ContentHash, article.FetchedAt.UTC().Format(time.RFC3339),
	).Scan(&article.ID)

	return err
}

// FindArticleByURL retrieves a cached article by source URL.
func (s *ArticleService) FindArticleByURL(ctx context.Context, url string) (*horizon.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE source_url = ?`, url)
	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, horizon.Errorf(horizon.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves cached articles, most recently fetched first.
func (s *ArticleService) FindArticles(ctx context.Context, filter horizon.ArticleFilter) ([]*horizon.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT ` + articleColumns + ` FROM articles WHERE 1=1`)
	if filter.SiteName != nil {
		query.WriteString(" AND site_name = ?")
		args = append(args, *filter.SiteName)
	}
	query.WriteString(" ORDER BY fetched_at DESC, source_url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*horizon.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// DeleteArticle removes a cached article.
func (s *ArticleService) DeleteArticle(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE source_url = ?", url)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return horizon.Errorf(horizon.ENOTFOUND, "article not found")
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*horizon.Article, error) {
	var a horizon.Article
	var blocks, images, fetchedAt string

	if err := row.Scan(&a.ID, &a.SourceURL, &a.Title, &a.SiteName, &a.Author, &a.PublishedAt,
		&a.Excerpt, &a.FeaturedImage, &blocks, &images, &a.TextContent, &a.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(blocks), &a.Blocks); err != nil {
		return nil, fmt.Errorf("failed to decode blocks: %w", err)
	}
	if err := json.Unmarshal([]byte(images), &a.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	var err error
	a.FetchedAt, err = parseTime("fetched_at", fetchedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func nonNilBlocks(b []horizon.Block) []horizon.Block {
	if b == nil {
		return []horizon.Block{}
	}
	return b
}

func nonNilImages(i []horizon.ImageRef) []horizon.ImageRef {
	if i == nil {
		return []horizon.ImageRef{}
	}
	return i
}

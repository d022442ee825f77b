// Package sqlite stores headlines, cached articles and digest subscribers in
// a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id             TEXT PRIMARY KEY,
	source_url     TEXT NOT NULL UNIQUE,
	title          TEXT NOT NULL DEFAULT '',
	site_name      TEXT NOT NULL DEFAULT '',
	author         TEXT NOT NULL DEFAULT '',
	published_at   TEXT NOT NULL DEFAULT '',
	excerpt        TEXT NOT NULL DEFAULT '',
	featured_image TEXT NOT NULL DEFAULT '',
	blocks         TEXT NOT NULL DEFAULT '[]',
	images         TEXT NOT NULL DEFAULT '[]',
	text_content   TEXT NOT NULL DEFAULT '',
	content_hash   TEXT NOT NULL DEFAULT '',
	fetched_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_articles_site_name ON articles(site_name);

CREATE TABLE IF NOT EXISTS headlines (
	id           TEXT PRIMARY KEY,
	url          TEXT NOT NULL UNIQUE,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	url_to_image TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL DEFAULT '',
	author       TEXT NOT NULL DEFAULT '',
	source_name  TEXT NOT NULL DEFAULT '',
	content      TEXT NOT NULL DEFAULT '',
	fetched_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_headlines_published_at ON headlines(published_at);

CREATE TABLE IF NOT EXISTS subscribers (
	id              TEXT PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	frequency       TEXT NOT NULL DEFAULT 'daily',
	subscribed_at   TEXT NOT NULL,
	unsubscribed_at TEXT
);
`

// DB wraps the database handle shared by the services in this package.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the file at path; ":memory:" opens a private
// in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

func (db *DB) inMemory() bool { return db.path == ":memory:" }

// Open connects and applies the schema.
func (db *DB) Open() (err error) {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	defer func() {
		if err != nil {
			conn.Close()
		}
	}()

	// One connection: a single writer, and ":memory:" would otherwise give
	// each connection its own database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return fmt.Errorf("connect %s: %w", db.path, err)
	}

	pragmas := []string{"PRAGMA busy_timeout = 5000"}
	if !db.inMemory() {
		// Readers (the HTTP server) proceed while a refresh writes.
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	db.db = conn
	return nil
}

// Close closes the database. It is a no-op if Open was never called.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a query returning rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction with default options.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

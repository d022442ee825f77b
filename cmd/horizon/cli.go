package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/crawl"
	"github.com/fwojciec/horizon/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	DB          *sqlite.DB
	News        horizon.NewsSource
	Headlines   horizon.HeadlineService
	Articles    horizon.ArticleService
	Subscribers horizon.SubscriberService
	Digests     horizon.DigestService
	Crawler     *crawl.Crawler
	Fetcher     horizon.Fetcher
	Renderer    horizon.Renderer
	Converter   horizon.Converter

	// Extractors maps engine names accepted by "extract --engine" to
	// implementations.
	Extractors map[string]horizon.Extractor
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config  string `type:"path" env:"HORIZON_CONFIG" help:"YAML config file"`
	DB      string `name:"db" env:"HORIZON_DB" help:"SQLite database path"`
	Verbose bool   `short:"v" help:"Log debug output to stderr"`
	Browser bool   `help:"Retry failed or thin pages in headless Chrome"`

	NewsAPIKey   string `name:"news-api-key" env:"NEWS_API_KEY" help:"NewsAPI key"`
	ResendAPIKey string `name:"resend-api-key" env:"RESEND_API_KEY" help:"Resend API key"`
	MailFrom     string `name:"mail-from" env:"HORIZON_MAIL_FROM" help:"Digest sender address"`
	BaseURL      string `name:"base-url" env:"HORIZON_BASE_URL" help:"Public site origin"`
	CronSecret   string `name:"cron-secret" env:"CRON_SECRET" help:"Bearer token guarding the cron endpoint"`

	Serve       ServeCmd       `cmd:"" help:"Serve the API and run scheduled digests"`
	Refresh     RefreshCmd     `cmd:"" help:"Fetch headlines and warm the article cache"`
	News        NewsCmd        `cmd:"" help:"Show current headlines"`
	Extract     ExtractCmd     `cmd:"" help:"Extract an article without caching it"`
	Read        ReadCmd        `cmd:"" help:"Read an article through the cache"`
	Subscribe   SubscribeCmd   `cmd:"" help:"Subscribe an address to the digest"`
	Unsubscribe UnsubscribeCmd `cmd:"" help:"Unsubscribe an address from the digest"`
	Subscribers SubscribersCmd `cmd:"" help:"List digest subscribers"`
	Digest      DigestCmd      `cmd:"" help:"Send the digest to subscribers due today"`
	Export      ExportCmd      `cmd:"" help:"Export cached articles as Markdown files"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"HORIZON_ADDR" help:"Listen address (default :8080)"`
}

// RefreshCmd is the "refresh" subcommand.
type RefreshCmd struct {
	Query       []string `short:"q" help:"Also search for this query (repeatable)"`
	Concurrency int      `short:"c" help:"Concurrent article fetches"`
}

// NewsCmd is the "news" subcommand.
type NewsCmd struct {
	Query  string `short:"q" help:"Search instead of top headlines"`
	Cached bool   `help:"Show cached headlines without calling the news API"`
	Limit  int    `short:"n" default:"20" help:"Maximum headlines to show"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL    string `arg:"" help:"Article URL"`
	Format string `short:"f" default:"markdown" enum:"markdown,json,html" help:"Output format (markdown, json, html)"`
	Engine string `short:"e" default:"heuristic" enum:"heuristic,readability,trafilatura" help:"Extraction engine (heuristic, readability, trafilatura)"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	URL    string `arg:"" help:"Article URL"`
	Image  string `help:"Featured image URL to attach"`
	Format string `short:"f" default:"markdown" enum:"markdown,json,html" help:"Output format (markdown, json, html)"`
}

// SubscribeCmd is the "subscribe" subcommand.
type SubscribeCmd struct {
	Email     string `arg:"" help:"Email address"`
	Frequency string `default:"daily" help:"Digest frequency (daily, weekly, monthly)"`
}

// UnsubscribeCmd is the "unsubscribe" subcommand.
type UnsubscribeCmd struct {
	Email string `arg:"" help:"Email address"`
}

// SubscribersCmd is the "subscribers" subcommand.
type SubscribersCmd struct {
	All       bool   `help:"Include unsubscribed addresses"`
	Frequency string `help:"Only show this frequency"`
}

// DigestCmd is the "digest" subcommand.
type DigestCmd struct {
	DryRun bool   `name:"dry-run" help:"Print messages instead of sending them"`
	Date   string `help:"Send as of this date (YYYY-MM-DD) instead of today"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Dir  string `arg:"" type:"path" help:"Output directory"`
	Name string `default:"articles" help:"Name of the export directory inside Dir"`
	Site string `help:"Only export articles from this site name"`
}

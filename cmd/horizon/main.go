package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/bloom"
	"github.com/fwojciec/horizon/bluemonday"
	"github.com/fwojciec/horizon/crawl"
	"github.com/fwojciec/horizon/goquery"
	"github.com/fwojciec/horizon/htmltomarkdown"
	horizonhttp "github.com/fwojciec/horizon/http"
	"github.com/fwojciec/horizon/newsapi"
	"github.com/fwojciec/horizon/newsletter"
	"github.com/fwojciec/horizon/opengraph"
	"github.com/fwojciec/horizon/readability"
	"github.com/fwojciec/horizon/resend"
	"github.com/fwojciec/horizon/rod"
	hslog "github.com/fwojciec/horizon/slog"
	"github.com/fwojciec/horizon/sqlite"
	"github.com/fwojciec/horizon/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// seenCapacity sizes the bloom filter of URLs extracted by this process.
const seenCapacity = 100_000

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor the config file names one.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close releases fetchers and closes the database.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("horizon"),
		kong.Description("Technology news reader: headlines, clean articles and an email digest."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'horizon --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd = strings.Fields(kongCtx.Command())[0]

	var fc *FileConfig
	if cli.Config != "" {
		if fc, err = LoadConfigFile(cli.Config); err != nil {
			return err
		}
	}
	if deps.Config, err = ResolveConfig(cli, fc, m.DBPath); err != nil {
		return err
	}
	deps.Logger = newLogger(stderr, cmd, cli.Verbose)

	m.DB = sqlite.NewDB(deps.Config.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set HORIZON_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", deps.Config.DBPath, err)
	}
	defer m.Close()

	if err := m.wire(deps, cli, cmd); err != nil {
		return err
	}

	return kongCtx.Run(deps)
}

// wire builds the services for cmd. The browser and the mailer are only
// started for commands that use them.
func (m *Main) wire(deps *Dependencies, cli *CLI, cmd string) error {
	cfg, logger := deps.Config, deps.Logger

	deps.DB = m.DB
	deps.Headlines = sqlite.NewHeadlineService(m.DB)
	deps.Articles = sqlite.NewArticleService(m.DB)
	deps.Subscribers = sqlite.NewSubscriberService(m.DB)
	deps.Renderer = bluemonday.NewRenderer()
	deps.Converter = htmltomarkdown.NewConverter()

	heuristic := goquery.NewExtractor(goquery.WithMetadataParser(opengraph.NewParser()))
	deps.Extractors = map[string]horizon.Extractor{
		"heuristic":   hslog.NewLoggingExtractor(heuristic, logger),
		"readability": hslog.NewLoggingExtractor(readability.NewExtractor(), logger),
		"trafilatura": hslog.NewLoggingExtractor(trafilatura.NewExtractor(), logger),
	}

	var fetchOpts []horizonhttp.Option
	if cfg.FetchTimeout > 0 {
		fetchOpts = append(fetchOpts, horizonhttp.WithTimeout(cfg.FetchTimeout))
	}
	fetcher := hslog.NewLoggingFetcher(horizonhttp.NewFetcher(fetchOpts...), logger)
	deps.Fetcher = fetcher
	m.closers = append(m.closers, fetcher.Close)

	if cfg.NewsAPIKey != "" {
		var opts []newsapi.Option
		if cfg.NewsAPIBaseURL != "" {
			opts = append(opts, newsapi.WithBaseURL(cfg.NewsAPIBaseURL))
		}
		deps.News = hslog.NewLoggingNewsSource(newsapi.NewClient(cfg.NewsAPIKey, opts...), logger)
	}

	deps.Crawler = &crawl.Crawler{
		News:        deps.News,
		Headlines:   deps.Headlines,
		Articles:    deps.Articles,
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractors["heuristic"],
		RateLimiter: crawl.NewDomainLimiter(cfg.RateLimit),
		Seen:        bloom.NewFilter(seenCapacity, 0.01),
		Log: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
		Concurrency: cfg.Concurrency,
	}

	if cfg.Browser && usesBrowser(cmd) {
		var opts []rod.Option
		if cfg.FetchTimeout > 0 {
			opts = append(opts, rod.WithFetchTimeout(cfg.FetchTimeout))
		}
		browser, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		logged := hslog.NewLoggingFetcher(browser, logger)
		deps.Crawler.Browser = logged
		m.closers = append(m.closers, logged.Close)
	}

	if cmd == "serve" || cmd == "digest" {
		var mailer horizon.Mailer
		switch {
		case cmd == "digest" && cli.Digest.DryRun:
			mailer = &printMailer{w: deps.Stdout}
		case cfg.ResendAPIKey != "":
			rm, err := resend.NewMailer(cfg.ResendAPIKey, nil)
			if err != nil {
				return err
			}
			mailer = hslog.NewLoggingMailer(rm, logger)
		}
		if mailer != nil && deps.News != nil {
			deps.Digests = &newsletter.Sender{
				News:          deps.News,
				Subscribers:   deps.Subscribers,
				Mailer:        mailer,
				Converter:     deps.Converter,
				From:          cfg.MailFrom,
				ReplyTo:       cfg.ReplyTo,
				SiteName:      cfg.SiteName,
				BaseURL:       cfg.BaseURL,
				HeadlineCount: cfg.DigestHeadlines,
			}
		}
	}

	return nil
}

func usesBrowser(cmd string) bool {
	switch cmd {
	case "serve", "refresh", "read", "extract":
		return true
	}
	return false
}

// newLogger logs warnings and errors to w. The server logs requests at info
// level; --verbose adds debug output.
func newLogger(w io.Writer, cmd string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if cmd == "serve" {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// requireNews reports a missing news API key.
func requireNews(deps *Dependencies) error {
	if deps.News != nil {
		return nil
	}
	fmt.Fprintln(deps.Stderr, "NEWS_API_KEY environment variable not set. Get an API key at https://newsapi.org/register")
	return horizon.Errorf(horizon.EUNAUTHORIZED, "NEWS_API_KEY not set")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "horizon.db"
	}
	dir := filepath.Join(home, ".horizon")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "horizon.db")
}

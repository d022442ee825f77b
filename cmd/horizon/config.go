package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/horizon/cron"
	"github.com/fwojciec/horizon/newsletter"
	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the schema of the --config file. Sections mirror the
// components they configure.
type FileConfig struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	NewsAPI struct {
		Key     string `yaml:"key"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"newsapi"`

	Mail struct {
		ResendKey string `yaml:"resendKey"`
		From      string `yaml:"from"`
		ReplyTo   string `yaml:"replyTo"`
	} `yaml:"mail"`

	Server struct {
		Addr       string `yaml:"addr"`
		BaseURL    string `yaml:"baseURL"`
		SiteName   string `yaml:"siteName"`
		CronSecret string        `yaml:"cronSecret"`
		JobTimeout time.Duration `yaml:"jobTimeout"`
	} `yaml:"server"`

	Digest struct {
		Schedule  string `yaml:"schedule"`
		Timezone  string `yaml:"timezone"`
		Headlines int    `yaml:"headlines"`
	} `yaml:"digest"`

	Crawl struct {
		Browser         bool          `yaml:"browser"`
		Concurrency     int           `yaml:"concurrency"`
		RateLimit       float64       `yaml:"rateLimit"`
		Timeout         time.Duration `yaml:"timeout"`
		RefreshSchedule string        `yaml:"refreshSchedule"`
		RefreshOnStart  bool          `yaml:"refreshOnStart"`
		Queries         []string      `yaml:"queries"`
	} `yaml:"crawl"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// Config is the resolved configuration: flags and environment override the
// config file, which overrides defaults.
type Config struct {
	DBPath string

	NewsAPIKey     string
	NewsAPIBaseURL string

	ResendAPIKey string
	MailFrom     string
	ReplyTo      string

	Addr       string
	BaseURL    string
	SiteName   string
	CronSecret string
	JobTimeout time.Duration

	DigestSpec      string
	Location        *time.Location
	DigestHeadlines int

	Browser        bool
	Concurrency    int
	RateLimit      float64
	FetchTimeout   time.Duration
	RefreshSpec    string
	RefreshOnStart bool
	RefreshQueries []string
}

// Default configuration values.
const (
	DefaultAddr        = ":8080"
	DefaultBaseURL     = "http://localhost:8080"
	DefaultSiteName    = "Horizon"
	DefaultMailFrom    = "Horizon <news@horizon.example.com>"
	DefaultConcurrency = 4
	DefaultRateLimit   = 1.0
)

// ResolveConfig merges the CLI flags over fc (which may be nil) and fills in
// defaults. dbPath is used when neither names a database.
func ResolveConfig(cli *CLI, fc *FileConfig, dbPath string) (*Config, error) {
	if fc == nil {
		fc = &FileConfig{}
	}

	cfg := &Config{
		DBPath:          first(cli.DB, fc.Database.Path, dbPath),
		NewsAPIKey:      first(cli.NewsAPIKey, fc.NewsAPI.Key),
		NewsAPIBaseURL:  fc.NewsAPI.BaseURL,
		ResendAPIKey:    first(cli.ResendAPIKey, fc.Mail.ResendKey),
		MailFrom:        first(cli.MailFrom, fc.Mail.From, DefaultMailFrom),
		ReplyTo:         fc.Mail.ReplyTo,
		Addr:            first(cli.Serve.Addr, fc.Server.Addr, DefaultAddr),
		BaseURL:         first(cli.BaseURL, fc.Server.BaseURL, DefaultBaseURL),
		SiteName:        first(fc.Server.SiteName, DefaultSiteName),
		CronSecret:      first(cli.CronSecret, fc.Server.CronSecret),
		JobTimeout:      fc.Server.JobTimeout,
		DigestSpec:      first(fc.Digest.Schedule, cron.DefaultDigestSpec),
		DigestHeadlines: fc.Digest.Headlines,
		Browser:         cli.Browser || fc.Crawl.Browser,
		Concurrency:     fc.Crawl.Concurrency,
		RateLimit:       fc.Crawl.RateLimit,
		FetchTimeout:    fc.Crawl.Timeout,
		RefreshSpec:     fc.Crawl.RefreshSchedule,
		RefreshOnStart:  fc.Crawl.RefreshOnStart,
		RefreshQueries:  fc.Crawl.Queries,
		Location:        time.Local,
	}

	if cfg.DigestHeadlines <= 0 {
		cfg.DigestHeadlines = newsletter.DefaultHeadlineCount
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if tz := fc.Digest.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("digest timezone: %w", err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Package newsapi lists headlines from the newsapi.org v2 API.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
)

// DefaultBaseURL is the newsapi.org v2 endpoint.
const DefaultBaseURL = "https://newsapi.org/v2"

// Defaults applied to queries that leave fields empty.
const (
	DefaultCategory = "technology"
	DefaultLanguage = "en"
	DefaultPageSize = 20
)

// removedTitle marks articles withdrawn by the publisher.
const removedTitle = "[Removed]"

// Ensure Client implements horizon.NewsSource at compile time.
var _ horizon.NewsSource = (*Client)(nil)

// Client is a newsapi.org client.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TopHeadlines returns the current top headlines for q.Category.
func (c *Client) TopHeadlines(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
	params := url.Values{}
	params.Set("category", orDefault(q.Category, DefaultCategory))
	params.Set("language", orDefault(q.Language, DefaultLanguage))
	params.Set("pageSize", strconv.Itoa(pageSize(q.PageSize)))
	return c.get(ctx, "/top-headlines", params)
}

// Search returns articles matching q.Query, newest first.
func (c *Client) Search(ctx context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
	query := strings.TrimSpace(q.Query)
	if query == "" {
		return nil, horizon.Errorf(horizon.EINVALID, "search query required")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", orDefault(q.Language, DefaultLanguage))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize(q.PageSize)))
	return c.get(ctx, "/everything", params)
}

type response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []article `json:"articles"`
}

type article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]*horizon.Headline, error) {
	if c.apiKey == "" {
		return nil, horizon.Errorf(horizon.EUNAUTHORIZED, "news API key required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("news API: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("news API: failed to decode response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, horizon.Errorf(horizon.EUNAUTHORIZED, "news API: %s", r.Message)
	case resp.StatusCode != http.StatusOK || r.Status == "error":
		return nil, fmt.Errorf("news API: HTTP %d: %s: %s", resp.StatusCode, r.Code, r.Message)
	}

	return toHeadlines(r.Articles), nil
}

// toHeadlines converts API articles, dropping withdrawn ones.
func toHeadlines(articles []article) []*horizon.Headline {
	headlines := make([]*horizon.Headline, 0, len(articles))
	for _, a := range articles {
		if a.Title == removedTitle || a.URL == "" || a.Title == "" {
			continue
		}
		h := &horizon.Headline{
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			URL:         a.URL,
			URLToImage:  a.URLToImage,
			Author:      strings.TrimSpace(a.Author),
			SourceName:  a.Source.Name,
			Content:     a.Content,
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			h.PublishedAt = t.UTC()
		}
		headlines = append(headlines, h)
	}
	return headlines
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func pageSize(n int) int {
	if n <= 0 {
		return DefaultPageSize
	}
	return min(n, 100)
}

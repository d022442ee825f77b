package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/horizon"
)

// newsResponse is the body of the news endpoints.
type newsResponse struct {
	Articles []*horizon.Headline `json:"articles"`

	// Cached is set when the news API failed and the headlines come from
	// the local cache.
	Cached bool `json:"cached,omitempty"`
}

// handleNews handles GET /api/news. An optional query parameter switches
// from top headlines to a search.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	s.serveHeadlines(w, r, query)
}

// handleNewsSearch handles GET /api/news/search?q=.
func (s *Server) handleNewsSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "search query is required"))
		return
	}
	s.serveHeadlines(w, r, query)
}

// serveHeadlines fetches live headlines and caches them. When the news API
// fails it falls back to cached headlines, and only reports the error if the
// cache is empty too.
func (s *Server) serveHeadlines(w http.ResponseWriter, r *http.Request, query string) {
	ctx := r.Context()

	headlines, err := s.liveHeadlines(ctx, query)
	if err == nil {
		if err := s.Headlines.UpsertHeadlines(ctx, headlines); err != nil {
			s.Logger.Warn("caching headlines", "count", len(headlines), "err", err)
		}
		writeJSON(w, http.StatusOK, &newsResponse{Articles: nonNil(headlines)})
		return
	}
	s.Logger.Warn("news api", "query", query, "err", err)

	filter := horizon.HeadlineFilter{Limit: 20}
	if query != "" {
		filter.Query = &query
	}
	cached, cacheErr := s.Headlines.FindHeadlines(ctx, filter)
	if cacheErr != nil || len(cached) == 0 {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &newsResponse{Articles: cached, Cached: true})
}

func (s *Server) liveHeadlines(ctx context.Context, query string) ([]*horizon.Headline, error) {
	if query == "" {
		return s.News.TopHeadlines(ctx, horizon.HeadlineQuery{})
	}
	return s.News.Search(ctx, horizon.HeadlineQuery{Query: query})
}

func nonNil(hs []*horizon.Headline) []*horizon.Headline {
	if hs == nil {
		return []*horizon.Headline{}
	}
	return hs
}

package http

import (
	"net/http"
	"strings"

	"github.com/fwojciec/horizon"
)

// articleResponse is an article plus its sanitized HTML rendering.
type articleResponse struct {
	*horizon.Article
	HTML string `json:"html"`
}

// handleArticle handles GET /api/article?url=&urlToImage=.
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := strings.TrimSpace(q.Get("url"))
	if url == "" {
		s.Error(w, r, horizon.Errorf(horizon.EINVALID, "URL parameter is required"))
		return
	}

	article, err := s.Reader.ReadArticle(r.Context(), url, strings.TrimSpace(q.Get("urlToImage")))
	if err != nil {
		s.Error(w, r, err)
		return
	}

	html, err := s.Renderer.Render(article)
	if err != nil {
		s.Error(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &articleResponse{Article: article, HTML: html})
}

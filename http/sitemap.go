package http

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/horizon"
)

// SitemapLimit is the maximum number of article URLs in the sitemap.
const SitemapLimit = 1000

// sitemapNS is the sitemap protocol namespace.
const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

// SitemapEntry is one <url> element.
type SitemapEntry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

// WriteSitemap writes entries as a sitemap XML document.
func WriteSitemap(w io.Writer, entries []SitemapEntry) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", sitemapNS)

	for _, e := range entries {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(e.Loc)
		if !e.LastMod.IsZero() {
			u.CreateElement("lastmod").SetText(e.LastMod.UTC().Format(time.RFC3339))
		}
		if e.ChangeFreq != "" {
			u.CreateElement("changefreq").SetText(e.ChangeFreq)
		}
		if e.Priority > 0 {
			u.CreateElement("priority").SetText(fmt.Sprintf("%.1f", e.Priority))
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

// ArticlePageURL returns the reader page for a cached article.
func ArticlePageURL(baseURL, sourceURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/article?url=" + url.QueryEscape(sourceURL)
}

// handleSitemap handles GET /sitemap.xml.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	articles, err := s.Articles.FindArticles(r.Context(), horizon.ArticleFilter{Limit: SitemapLimit})
	if err != nil {
		s.Error(w, r, err)
		return
	}

	base := strings.TrimSuffix(s.BaseURL, "/")
	entries := []SitemapEntry{
		{Loc: base, LastMod: time.Now(), ChangeFreq: "daily", Priority: 1},
		{Loc: base + "/search", ChangeFreq: "daily", Priority: 0.5},
	}
	for _, a := range articles {
		entries = append(entries, SitemapEntry{
			Loc:        ArticlePageURL(base, a.SourceURL),
			LastMod:    a.FetchedAt,
			ChangeFreq: "daily",
			Priority:   0.8,
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := WriteSitemap(w, entries); err != nil {
		s.Logger.Error("writing sitemap", "err", err)
	}
}

// handleRobots handles GET /robots.txt.
func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: %s/sitemap.xml\n", strings.TrimSuffix(s.BaseURL, "/"))
}

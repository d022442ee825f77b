package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/horizon"
)

// readMetadata fills in page metadata from the document, preferring values
// already found by a dedicated parser in meta.
func readMetadata(doc *goquery.Document, meta *horizon.Metadata, sourceURL string) horizon.Metadata {
	return horizon.Metadata{
		Title: firstNonEmpty(
			collapse(doc.Find("h1").First().Text()),
			meta.Title,
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
			collapse(doc.Find("title").First().Text()),
		),
		SiteName: firstNonEmpty(
			meta.SiteName,
			metaContent(doc, `meta[property="og:site_name"]`),
			hostName(sourceURL),
		),
		Description: firstNonEmpty(
			meta.Description,
			metaContent(doc, `meta[name="description"]`),
			metaContent(doc, `meta[property="og:description"]`),
		),
		Image: firstNonEmpty(
			meta.Image,
			metaContent(doc, `meta[property="og:image"]`),
			metaContent(doc, `meta[name="twitter:image"]`),
		),
		Author: firstNonEmpty(
			meta.Author,
			metaContent(doc, `meta[name="author"]`),
			metaContent(doc, `meta[property="article:author"]`),
			collapse(doc.Find(`[itemprop="author"], [rel="author"], .byline, .author`).First().Text()),
		),
		PublishedAt: firstNonEmpty(
			meta.PublishedAt,
			metaContent(doc, `meta[property="article:published_time"]`),
			metaContent(doc, `meta[name="publishedDate"]`),
			metaContent(doc, `meta[name="date"]`),
			strings.TrimSpace(doc.Find("time[datetime]").First().AttrOr("datetime", "")),
		),
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

// hostName returns the host of rawURL without a leading "www.".
func hostName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

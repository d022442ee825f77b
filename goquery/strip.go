package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NoiseSelector matches page furniture that never carries article content.
const NoiseSelector = "script, style, iframe, noscript, nav, footer, header, aside"

// DefaultNoiseMarkers are class/id substrings that mark boilerplate such as
// ad slots, share bars and comment widgets. Matching is a case-insensitive
// substring test, so "ad" also matches classes like "header" or "lead".
var DefaultNoiseMarkers = []string{
	"ad",
	"advertisement",
	"social-share",
	"related-articles",
	"comments",
}

// Strip removes boilerplate from doc in place: every element matched by
// NoiseSelector and every element inside <body> whose class or id contains
// one of markers. The <html> and <body> elements themselves are never removed.
func Strip(doc *goquery.Document, markers []string) {
	doc.Find(NoiseSelector).Remove()

	if len(markers) == 0 {
		return
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}

	doc.Find("body [class], body [id]").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return hasMarker(sel, "class", lowered) || hasMarker(sel, "id", lowered)
	}).Remove()
}

// hasMarker checks whether the attribute value contains any of the markers.
func hasMarker(sel *goquery.Selection, attr string, markers []string) bool {
	v, ok := sel.Attr(attr)
	if !ok || v == "" {
		return false
	}
	v = strings.ToLower(v)
	for _, m := range markers {
		if strings.Contains(v, m) {
			return true
		}
	}
	return false
}

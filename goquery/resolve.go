package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// trackingMarkers are URL substrings that identify beacons and spacer images.
var trackingMarkers = []string{"tracking", "pixel", "analytics"}

// ResolveImageURL turns an image src into an absolute URL against pageURL.
// It returns false when the src is empty or looks like a tracking beacon.
//
// Protocol-relative sources get an https: scheme, root-relative sources are
// joined to the page origin and other relative sources are resolved against
// the page URL. If pageURL cannot be parsed the candidate is returned
// unmodified, but the tracking filter still applies.
func ResolveImageURL(src, pageURL string) (string, bool) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", false
	}
	resolved := resolveImage(src, pageURL)
	if isTracking(src) || isTracking(resolved) {
		return "", false
	}
	return resolved, true
}

func resolveImage(src, pageURL string) string {
	switch {
	case strings.HasPrefix(src, "//"):
		return "https:" + src
	case hasHTTPScheme(src):
		return src
	}

	base, ok := parseBase(pageURL)
	if !ok {
		return src
	}
	if strings.HasPrefix(src, "/") {
		return base.Scheme + "://" + base.Host + src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

func hasHTTPScheme(src string) bool {
	lowered := strings.ToLower(src)
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}

func isTracking(u string) bool {
	lowered := strings.ToLower(u)
	for _, m := range trackingMarkers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return false
}

// parseBase parses a page URL, rejecting anything without a scheme and host.
func parseBase(pageURL string) (*url.URL, bool) {
	base, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, false
	}
	return base, true
}

// isAbsoluteHTTP reports whether u is an absolute http(s) URL.
func isAbsoluteHTTP(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be left alone.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}

// rewriteFragment makes the links and images inside sel absolute so the
// fragment renders correctly outside the source page. Tracking images are
// dropped from the fragment.
func rewriteFragment(sel *goquery.Selection, pageURL string) {
	base, hasBase := parseBase(pageURL)

	sel.Find("a[href]").AddBackFiltered("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !hasBase || href == "" || isNonHTTPLink(href) {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		a.SetAttr("href", base.ResolveReference(ref).String())
	})

	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" {
			img.Remove()
			return
		}
		resolved, ok := ResolveImageURL(src, pageURL)
		if !ok {
			img.Remove()
			return
		}
		img.SetAttr("src", resolved)
	})
}

// imageSource returns the first usable source among src, data-src and
// data-lazy-src. Inline data: URIs are placeholders for lazy loading and
// are skipped.
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		v := strings.TrimSpace(img.AttrOr(attr, ""))
		if v == "" || strings.HasPrefix(strings.ToLower(v), "data:") {
			continue
		}
		return v
	}
	return ""
}

package crawl

import (
	"fmt"
	"strings"
)

// TruncateURL shortens url for progress output. The scheme is dropped and,
// when still too long, the head is cut because article slugs sit at the end.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if i := strings.Index(url, "://"); i >= 0 {
		url = url[i+3:]
	}
	switch {
	case len(url) <= maxLen:
		return url
	case maxLen <= 3:
		return url[:maxLen]
	}
	return "..." + url[len(url)-(maxLen-3):]
}

// FormatBytes formats n bytes using binary units.
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	if kb := float64(n) / 1024; kb < 1024 {
		return fmt.Sprintf("%.1f KB", kb)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
}

// FormatResult summarizes a refresh in one line.
func FormatResult(r *Result) string {
	return fmt.Sprintf("%d headlines: %d saved, %d cached, %d failed (%s of text)",
		r.Headlines, r.Saved, r.Cached, r.Failed, FormatBytes(r.Bytes))
}

package horizon

import (
	"fmt"
	"strings"
)

// FormatHeadlines formats headlines as a numbered plain-text listing.
// The source line is omitted when the source name is unknown.
func FormatHeadlines(headlines []*Headline) string {
	if len(headlines) == 0 {
		return ""
	}

	var b strings.Builder
	for i, h := range headlines {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, h.Title)
		if h.SourceName != "" {
			fmt.Fprintf(&b, "   %s", h.SourceName)
			if !h.PublishedAt.IsZero() {
				fmt.Fprintf(&b, " · %s", h.PublishedAt.Format("2006-01-02 15:04"))
			}
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "   %s\n", h.URL)
	}
	return b.String()
}

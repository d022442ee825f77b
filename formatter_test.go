package horizon_test

import (
	"testing"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/stretchr/testify/assert"
)

func TestFormatHeadlines(t *testing.T) {
	t.Parallel()

	t.Run("formats single headline with source and date", func(t *testing.T) {
		t.Parallel()

		headlines := []*horizon.Headline{
			{
				Title:       "Chip shortage eases",
				URL:         "https://news.test/chips",
				SourceName:  "The Verge",
				PublishedAt: time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC),
			},
		}

		result := horizon.FormatHeadlines(headlines)

		expected := "1. Chip shortage eases\n   The Verge · 2025-03-04 09:30\n   https://news.test/chips\n"
		assert.Equal(t, expected, result)
	})

	t.Run("omits source line when source is unknown", func(t *testing.T) {
		t.Parallel()

		headlines := []*horizon.Headline{
			{Title: "Untitled wire story", URL: "https://news.test/wire"},
		}

		result := horizon.FormatHeadlines(headlines)

		assert.Equal(t, "1. Untitled wire story\n   https://news.test/wire\n", result)
	})

	t.Run("separates headlines with blank line", func(t *testing.T) {
		t.Parallel()

		headlines := []*horizon.Headline{
			{Title: "One", URL: "https://news.test/1"},
			{Title: "Two", URL: "https://news.test/2"},
		}

		result := horizon.FormatHeadlines(headlines)

		assert.Equal(t, "1. One\n   https://news.test/1\n\n2. Two\n   https://news.test/2\n", result)
	})

	t.Run("returns empty string for no headlines", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, horizon.FormatHeadlines(nil))
	})
}

package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestArticlePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "nests under host",
			url:  "https://example.com/2024/05/chips",
			want: "example.com/2024/05/chips.md",
		},
		{
			name: "drops www prefix",
			url:  "https://www.example.com/story",
			want: "example.com/story.md",
		},
		{
			name: "root becomes index",
			url:  "https://example.com",
			want: "example.com/index.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/tech/",
			want: "example.com/tech/index.md",
		},
		{
			name: "strips html extension",
			url:  "https://example.com/news/story.html",
			want: "example.com/news/story.md",
		},
		{
			name: "ignores query and fragment",
			url:  "https://example.com/story?utm_source=x#comments",
			want: "example.com/story.md",
		},
		{
			name: "cannot escape host directory",
			url:  "https://example.com/../../etc/passwd",
			want: "example.com/etc/passwd.md",
		},
		{
			name:    "rejects URL without host",
			url:     "/relative/story",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.ArticlePath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func testArticle() *horizon.Article {
	return &horizon.Article{
		SourceURL: "https://example.com/2024/05/chips",
		Title:     "Chips: the next generation",
		SiteName:  "Example News",
		Author:    "Jane Doe",
		FetchedAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	}
}

// splitFrontMatter returns the YAML header and body of an exported file.
func splitFrontMatter(t *testing.T, content string) (map[string]string, string) {
	t.Helper()

	require.True(t, strings.HasPrefix(content, "---\n"))
	header, body, ok := strings.Cut(strings.TrimPrefix(content, "---\n"), "---\n\n")
	require.True(t, ok, "missing front matter terminator")

	var fields map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(header), &fields))
	return fields, body
}

func TestFormatArticle(t *testing.T) {
	t.Parallel()

	got, err := fs.FormatArticle(testArticle(), "# Chips\n\nFaster chips.\n")

	require.NoError(t, err)
	fields, body := splitFrontMatter(t, got)
	assert.Equal(t, "https://example.com/2024/05/chips", fields["source"])
	assert.Equal(t, "Chips: the next generation", fields["title"])
	assert.Equal(t, "Example News", fields["site"])
	assert.Equal(t, "Jane Doe", fields["author"])
	assert.Equal(t, "2025-01-08", fields["fetched"])
	assert.NotContains(t, fields, "published")
	assert.Equal(t, "# Chips\n\nFaster chips.\n", body)
}

func TestWriter(t *testing.T) {
	t.Parallel()

	t.Run("stages articles until commit", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		w := fs.NewWriter(base, "export")

		rel, err := w.WriteArticle(context.Background(), testArticle(), "body")

		require.NoError(t, err)
		assert.Equal(t, "example.com/2024/05/chips.md", rel)
		_, err = os.Stat(filepath.Join(base, "export.tmp", "example.com", "2024", "05", "chips.md"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(base, "export"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("commit replaces previous export", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		stale := filepath.Join(base, "export", "old.md")
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

		w := fs.NewWriter(base, "export")
		_, err := w.WriteArticle(context.Background(), testArticle(), "body")
		require.NoError(t, err)

		require.NoError(t, w.Commit())

		content, err := os.ReadFile(filepath.Join(base, "export", "example.com", "2024", "05", "chips.md"))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(content), "body"))
		_, err = os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(base, "export.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("commit with no articles creates empty export", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		w := fs.NewWriter(base, "export")

		require.NoError(t, w.Commit())

		info, err := os.Stat(filepath.Join(base, "export"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("abort removes staged files", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		w := fs.NewWriter(base, "export")
		_, err := w.WriteArticle(context.Background(), testArticle(), "body")
		require.NoError(t, err)

		require.NoError(t, w.Abort())

		_, err = os.Stat(filepath.Join(base, "export.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects article without source URL", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir(), "export")

		_, err := w.WriteArticle(context.Background(), &horizon.Article{}, "body")

		assert.Equal(t, horizon.EINVALID, horizon.ErrorCode(err))
	})
}

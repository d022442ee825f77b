// Package fs exports cached articles as Markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/horizon"
	"gopkg.in/yaml.v3"
)

// ArticlePath converts an article URL to a relative file path rooted at the
// publisher host.
// Example: https://www.example.com/2024/05/chips → example.com/2024/05/chips.md
func ArticlePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host == "" {
		return "", horizon.Errorf(horizon.EINVALID, "article URL %q has no host", rawURL)
	}

	// Clean against a rooted path so ".." segments cannot escape the host.
	p := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	switch {
	case p == "":
		p = "index"
	case strings.HasSuffix(u.Path, "/"):
		p += "/index"
	}
	p = strings.TrimSuffix(p, ".html")
	p = strings.TrimSuffix(p, ".htm")
	return host + "/" + p + ".md", nil
}

// frontMatter is the YAML header of an exported article.
type frontMatter struct {
	Source    string `yaml:"source"`
	Title     string `yaml:"title"`
	Site      string `yaml:"site"`
	Author    string `yaml:"author,omitempty"`
	Published string `yaml:"published,omitempty"`
	Fetched   string `yaml:"fetched"`
}

// FormatArticle prefixes the Markdown body with YAML front matter.
func FormatArticle(a *horizon.Article, markdown string) (string, error) {
	header, err := yaml.Marshal(frontMatter{
		Source:    a.SourceURL,
		Title:     a.Title,
		Site:      a.SiteName,
		Author:    a.Author,
		Published: a.PublishedAt,
		Fetched:   a.FetchedAt.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(header)
	b.WriteString("---\n\n")
	b.WriteString(markdown)
	return b.String(), nil
}

// Writer exports articles into a directory with replace-on-commit semantics.
// Files are written to baseDir/name.tmp and moved to baseDir/name on Commit,
// so a failed export never leaves a half-written tree in place.
type Writer struct {
	baseDir string
	name    string
}

// NewWriter creates a new Writer.
func NewWriter(baseDir, name string) *Writer {
	return &Writer{baseDir: baseDir, name: name}
}

func (w *Writer) tempDir() string {
	return filepath.Join(w.baseDir, w.name+".tmp")
}

func (w *Writer) finalDir() string {
	return filepath.Join(w.baseDir, w.name)
}

// WriteArticle writes the article to the staging directory and returns its
// path relative to the export root.
func (w *Writer) WriteArticle(ctx context.Context, a *horizon.Article, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := a.Validate(); err != nil {
		return "", err
	}

	relPath, err := ArticlePath(a.SourceURL)
	if err != nil {
		return "", err
	}
	content, err := FormatArticle(a, markdown)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return relPath, nil
}

// Commit replaces the export directory with the staged files.
func (w *Writer) Commit() error {
	if err := os.MkdirAll(w.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(w.finalDir()); err != nil {
		return err
	}
	return os.Rename(w.tempDir(), w.finalDir())
}

// Abort discards the staged files.
func (w *Writer) Abort() error {
	return os.RemoveAll(w.tempDir())
}

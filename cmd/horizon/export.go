package main

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/fs"
)

// exportPageSize is the number of articles loaded per query during export.
const exportPageSize = 100

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) (err error) {
	w := fs.NewWriter(c.Dir, c.Name)
	defer func() {
		if err != nil {
			_ = w.Abort()
		}
	}()

	filter := horizon.ArticleFilter{Limit: exportPageSize}
	if c.Site != "" {
		filter.SiteName = &c.Site
	}

	var n int
	for {
		articles, err := deps.Articles.FindArticles(deps.Ctx, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
			return err
		}

		for _, a := range articles {
			html, err := deps.Renderer.Render(a)
			if err != nil {
				return fmt.Errorf("render %s: %w", a.SourceURL, err)
			}
			md, err := deps.Converter.Convert(html)
			if err != nil {
				return fmt.Errorf("convert %s: %w", a.SourceURL, err)
			}
			path, err := w.WriteArticle(deps.Ctx, a, md)
			if ctxErr := deps.Ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", a.SourceURL, err)
				continue
			}
			deps.Logger.Debug("exported article", "url", a.SourceURL, "path", path)
			n++
		}

		if len(articles) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	if err := w.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Exported %d articles to %s\n", n, filepath.Join(c.Dir, c.Name))
	return nil
}

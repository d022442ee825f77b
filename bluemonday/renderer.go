// Package bluemonday renders articles to HTML that is safe to embed,
// sanitizing third-party fragments with a bluemonday policy.
package bluemonday

import (
	"html"
	"strings"

	"github.com/fwojciec/horizon"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Renderer implements horizon.Renderer at compile time.
var _ horizon.Renderer = (*Renderer)(nil)

// Renderer turns article blocks into sanitized HTML.
// A Renderer is safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer creates a Renderer with a user-generated-content policy that
// also allows figures.
func NewRenderer() *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("article", "figure", "figcaption")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &Renderer{policy: p}
}

// Render returns the article body as HTML. The featured image is prepended
// unless it already appears among the article images.
func (r *Renderer) Render(article *horizon.Article) (string, error) {
	if article == nil {
		return "", horizon.Errorf(horizon.EINVALID, "article required")
	}

	var b strings.Builder
	b.WriteString("<article>")
	if article.FeaturedImage != "" && !hasImage(article, article.FeaturedImage) {
		writeFigure(&b, article.FeaturedImage, article.Title)
	}
	for _, block := range article.Blocks {
		writeBlock(&b, block)
	}
	b.WriteString("</article>")

	return r.policy.Sanitize(b.String()), nil
}

func writeBlock(b *strings.Builder, block horizon.Block) {
	switch block.Kind {
	case horizon.BlockHeading:
		tag := "h2"
		if block.Level == 3 {
			tag = "h3"
		}
		b.WriteString("<" + tag + ">" + html.EscapeString(block.Text) + "</" + tag + ">")
	case horizon.BlockParagraph:
		b.WriteString("<p>" + block.HTML + "</p>")
	case horizon.BlockList:
		b.WriteString("<ul>")
		for _, item := range block.Items {
			b.WriteString("<li>" + html.EscapeString(item) + "</li>")
		}
		b.WriteString("</ul>")
	case horizon.BlockImage:
		writeFigure(b, block.URL, block.Caption)
	}
}

func writeFigure(b *strings.Builder, src, caption string) {
	b.WriteString(`<figure><img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(caption) + `">`)
	if caption != "" {
		b.WriteString("<figcaption>" + html.EscapeString(caption) + "</figcaption>")
	}
	b.WriteString("</figure>")
}

func hasImage(article *horizon.Article, url string) bool {
	for _, img := range article.Images {
		if img.URL == url {
			return true
		}
	}
	return false
}

package horizon

// Renderer turns an article into displayable HTML.
//
// Paragraph fragments come from third-party pages, so implementations are the
// sanitization boundary: the returned HTML must be safe to embed in a page.
type Renderer interface {
	Render(article *Article) (string, error)
}

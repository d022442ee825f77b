package mock

import "github.com/fwojciec/horizon"

var _ horizon.Converter = (*Converter)(nil)

// Converter is a mock implementation of horizon.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ horizon.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of horizon.Renderer.
type Renderer struct {
	RenderFn func(article *horizon.Article) (string, error)
}

func (r *Renderer) Render(article *horizon.Article) (string, error) {
	return r.RenderFn(article)
}

// Package htmltomarkdown turns rendered article HTML into Markdown for
// plain-text digest parts and file exports.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/horizon"
)

var _ horizon.Converter = (*Converter)(nil)

// Converter renders HTML as CommonMark with GFM tables and strikethrough.
type Converter struct {
	conv   *converter.Converter
	domain string
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and image sources against domain, for
// example "https://news.example.com".
func WithDomain(domain string) Option {
	return func(c *Converter) { c.domain = domain }
}

// NewConverter returns a Converter using "-" bullets and "*" emphasis.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithBulletListMarker("-"),
				commonmark.WithEmDelimiter("*"),
				commonmark.WithStrongDelimiter("**"),
			),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
		)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert returns html as Markdown ending in a single newline.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", horizon.Errorf(horizon.EINVALID, "empty HTML input")
	}

	var (
		md  string
		err error
	)
	if c.domain != "" {
		md, err = c.conv.ConvertString(html, converter.WithDomain(c.domain))
	} else {
		md, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md) + "\n", nil
}

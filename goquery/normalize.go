package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/horizon"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Content is the normalized form of a located subtree.
type Content struct {
	Blocks []horizon.Block
	Images []horizon.ImageRef

	// Text is the plain text of every text-bearing block, separated by
	// blank lines.
	Text string
}

// Normalize walks root in document order and flattens it into blocks.
//
// Headings h2 and h3 keep their level. Other headings and <p> elements
// become paragraphs whose HTML fragment has absolute links and image
// sources. Lists become one item per direct <li>. Images are resolved with
// ResolveImageURL and deduplicated. Runs of bare text and phrasing
// elements become one paragraph with the text escaped. Every other element
// is transparent and its children are walked in place.
//
// Normalize mutates the fragment attributes of root.
func Normalize(root *goquery.Selection, pageURL string) *Content {
	n := &normalizer{
		pageURL: pageURL,
		seen:    make(map[string]bool),
	}
	n.walk(root)
	return &Content{
		Blocks: n.blocks,
		Images: n.images,
		Text:   strings.Join(n.texts, "\n\n"),
	}
}

// NormalizeHTML parses an HTML fragment and normalizes its body.
// It is used by engines that return cleaned article HTML.
func NormalizeHTML(fragment, pageURL string) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, horizon.Errorf(horizon.EINVALID, "failed to parse HTML: %v", err)
	}
	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	return Normalize(root, pageURL), nil
}

type normalizer struct {
	pageURL string
	blocks  []horizon.Block
	images  []horizon.ImageRef
	texts   []string
	seen    map[string]bool
}

func (n *normalizer) walk(sel *goquery.Selection) {
	var run []*goquery.Selection
	flush := func() {
		n.inline(run)
		run = run[:0]
	}
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		node := child.Get(0)
		switch {
		case node.Type == html.TextNode, isInline(child, node):
			run = append(run, child)
		case node.Type == html.ElementNode:
			flush()
			n.element(child, node)
		}
	})
	flush()
}

// inlineAtoms are phrasing elements merged with neighbouring text into a
// single paragraph.
var inlineAtoms = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Cite: true, atom.Code: true,
	atom.Del: true, atom.Em: true, atom.I: true, atom.Ins: true, atom.Kbd: true,
	atom.Mark: true, atom.Q: true, atom.S: true, atom.Small: true, atom.Span: true,
	atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true,
}

// isInline reports whether node is a phrasing element holding only text and
// other phrasing elements.
func isInline(sel *goquery.Selection, node *html.Node) bool {
	if node.Type != html.ElementNode || !inlineAtoms[node.DataAtom] {
		return false
	}
	blocky := false
	sel.Find("*").EachWithBreak(func(_ int, d *goquery.Selection) bool {
		blocky = !inlineAtoms[d.Get(0).DataAtom]
		return !blocky
	})
	return !blocky
}

// inline emits a run of adjacent text nodes and phrasing elements as one
// paragraph.
func (n *normalizer) inline(run []*goquery.Selection) {
	var frag, text strings.Builder
	for _, sel := range run {
		node := sel.Get(0)
		if node.Type == html.TextNode {
			frag.WriteString(html.EscapeString(node.Data))
			text.WriteString(node.Data)
			continue
		}
		rewriteFragment(sel, n.pageURL)
		outer, err := goquery.OuterHtml(sel)
		if err != nil {
			continue
		}
		frag.WriteString(outer)
		text.WriteString(sel.Text())
	}
	t := strings.TrimSpace(text.String())
	if t == "" {
		return
	}
	n.add(horizon.Paragraph(strings.TrimSpace(frag.String())), t)
}

func (n *normalizer) element(sel *goquery.Selection, node *html.Node) {
	switch node.DataAtom {
	case atom.H2:
		n.heading(sel, 2)
	case atom.H3:
		n.heading(sel, 3)
	case atom.P, atom.H1, atom.H4, atom.H5, atom.H6:
		n.paragraph(sel)
	case atom.Ul, atom.Ol:
		n.list(sel)
	case atom.Img:
		n.image(sel)
	case atom.Br, atom.Hr, atom.Script, atom.Style, atom.Noscript, atom.Template:
	case atom.Figcaption:
		// Captions of figures with an image are attached to the image block.
		if sel.Closest("figure").Find("img").Length() > 0 {
			return
		}
		n.walk(sel)
	default:
		n.walk(sel)
	}
}

func (n *normalizer) add(b horizon.Block, text string) {
	n.blocks = append(n.blocks, b)
	if text != "" {
		n.texts = append(n.texts, text)
	}
}

func (n *normalizer) heading(sel *goquery.Selection, level int) {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return
	}
	n.add(horizon.Heading(level, text), text)
}

func (n *normalizer) paragraph(sel *goquery.Selection) {
	text := strings.TrimSpace(sel.Text())
	if text == "" {
		// Image-only paragraphs still contribute their images.
		n.walk(sel)
		return
	}
	rewriteFragment(sel, n.pageURL)
	inner, err := sel.Html()
	if err != nil {
		return
	}
	n.add(horizon.Paragraph(strings.TrimSpace(inner)), text)
}

func (n *normalizer) list(sel *goquery.Selection) {
	var items []string
	sel.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if item := strings.TrimSpace(li.Text()); item != "" {
			items = append(items, item)
		}
	})
	if len(items) == 0 {
		return
	}
	n.add(horizon.List(items...), strings.Join(items, "\n"))
}

func (n *normalizer) image(sel *goquery.Selection) {
	src := imageSource(sel)
	if src == "" {
		return
	}
	resolved, ok := ResolveImageURL(src, n.pageURL)
	if !ok || !isAbsoluteHTTP(resolved) || n.seen[resolved] {
		return
	}
	n.seen[resolved] = true

	caption := imageCaption(sel)
	n.images = append(n.images, horizon.ImageRef{
		URL:      resolved,
		Position: len(n.blocks),
		Caption:  caption,
	})
	n.add(horizon.Image(resolved, caption), "")
}

// imageCaption returns the alt text, else the text of an immediately
// following figcaption, else the figcaption of the enclosing figure.
func imageCaption(img *goquery.Selection) string {
	if alt := strings.TrimSpace(img.AttrOr("alt", "")); alt != "" {
		return alt
	}
	if next := img.NextFiltered("figcaption"); next.Length() > 0 {
		if text := strings.TrimSpace(next.Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(img.Closest("figure").Find("figcaption").First().Text())
}

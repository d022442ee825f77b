package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Strategy names the rule that located the main content.
type Strategy string

// Locator strategies, in priority order.
const (
	LocateArticle Strategy = "article"
	LocateHint    Strategy = "hint"
	LocateDensest Strategy = "densest"
	LocateBody    Strategy = "body"
)

// DefaultContentHints are CSS selectors for common article containers,
// tried in order after <article>.
var DefaultContentHints = []string{
	`[class*="article-content"], [id*="article-content"]`,
	`[class*="post-content"], [id*="post-content"]`,
	`[class*="entry-content"], [id*="entry-content"]`,
	"main",
}

// Locate returns the subtree most likely to hold the article body.
// The first matching rule wins:
//
//  1. the first <article> element
//  2. the first element matching a content hint, hints tried in order
//  3. the <div> or <section> with the most direct text
//  4. <body>
//
// Direct text excludes text inside nested <div>/<section> elements, so an
// outer wrapper never wins on the strength of its children. Ties go to the
// element that comes first in document order.
func Locate(doc *goquery.Document, hints []string) (*goquery.Selection, Strategy) {
	if article := doc.Find("article").First(); article.Length() > 0 {
		return article, LocateArticle
	}

	for _, hint := range hints {
		if el := doc.Find(hint).First(); el.Length() > 0 {
			return el, LocateHint
		}
	}

	if densest := findDensest(doc); densest != nil {
		return densest, LocateDensest
	}

	body := doc.Find("body").First()
	if body.Length() == 0 {
		return doc.Selection, LocateBody
	}
	return body, LocateBody
}

// findDensest returns the div or section with the largest direct text length,
// or nil if none has any text.
func findDensest(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestLen := 0
	doc.Find("div, section").Each(func(_ int, sel *goquery.Selection) {
		n := directTextLength(sel.Get(0))
		if n > bestLen {
			best, bestLen = sel, n
		}
	})
	return best
}

// directTextLength counts the characters of text beneath n, skipping nested
// candidate containers which are measured on their own.
func directTextLength(n *html.Node) int {
	total := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			total += utf8.RuneCountInString(strings.TrimSpace(c.Data))
		case html.ElementNode:
			if isCandidate(c) {
				continue
			}
			total += directTextLength(c)
		}
	}
	return total
}

func isCandidate(n *html.Node) bool {
	return n.DataAtom == atom.Div || n.DataAtom == atom.Section
}

package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/horizon/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestLocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		wantText string
		want     goquery.Strategy
	}{
		{
			name:     "article wins over hints",
			html:     `<body><div class="article-content"><p>Hint</p></div><article><p>Article</p></article></body>`,
			wantText: "Article",
			want:     goquery.LocateArticle,
		},
		{
			name:     "first article element",
			html:     `<body><article><p>One</p></article><article><p>Two</p></article></body>`,
			wantText: "One",
			want:     goquery.LocateArticle,
		},
		{
			name:     "hints tried in order",
			html:     `<body><main><p>Main</p></main><div class="post-content"><p>Post</p></div><div id="article-content-1"><p>Art</p></div></body>`,
			wantText: "Art",
			want:     goquery.LocateHint,
		},
		{
			name:     "main as last hint",
			html:     `<body><div><p>Outside</p></div><main><p>Main</p></main></body>`,
			wantText: "Main",
			want:     goquery.LocateHint,
		},
		{
			name:     "densest ignores nested containers",
			html:     `<body><section>Outer <div>inner text that is much much longer</div></section></body>`,
			wantText: "inner text that is much much longer",
			want:     goquery.LocateDensest,
		},
		{
			name:     "densest tie goes to first",
			html:     `<body><div>abc</div><div>xyz</div></body>`,
			wantText: "abc",
			want:     goquery.LocateDensest,
		},
		{
			name:     "empty containers fall through to body",
			html:     `<body><div></div><div> </div><p>Loose</p></body>`,
			wantText: "Loose",
			want:     goquery.LocateBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sel, strategy := goquery.Locate(newDoc(t, tt.html), goquery.DefaultContentHints)

			assert.Equal(t, tt.want, strategy)
			assert.Equal(t, tt.wantText, strings.TrimSpace(sel.Text()))
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	t.Run("removes noise elements", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html><head><style>p{}</style></head><body>
			<header>Top</header><nav>Links</nav>
			<p>Keep</p>
			<script>var x;</script><noscript>No JS</noscript><iframe></iframe>
			<aside>Side</aside><footer>Bottom</footer>
		</body></html>`)

		goquery.Strip(doc, nil)

		assert.Equal(t, "Keep", strings.TrimSpace(doc.Find("body").Text()))
	})

	t.Run("removes elements by class and id substring", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<body>
			<p>Keep</p>
			<div class="Top-Advertisement">A</div>
			<div id="user-comments">B</div>
			<div class="related-articles-box">C</div>
		</body>`)

		goquery.Strip(doc, goquery.DefaultNoiseMarkers)

		assert.Equal(t, "Keep", strings.TrimSpace(doc.Find("body").Text()))
	})

	t.Run("never removes body", func(t *testing.T) {
		t.Parallel()

		doc := newDoc(t, `<html class="loaded"><body class="loaded"><p>Keep</p></body></html>`)

		goquery.Strip(doc, goquery.DefaultNoiseMarkers)

		assert.Equal(t, 1, doc.Find("body").Length())
		assert.Equal(t, "Keep", strings.TrimSpace(doc.Find("body").Text()))
	})
}

package crawl

import "github.com/fwojciec/horizon"

// ContentDiffers reports whether the browser-rendered article carries
// meaningfully more text than the plain HTTP one: more than 50% longer, or
// any text at all when the HTTP article is empty.
func ContentDiffers(httpArticle, browserArticle *horizon.Article) bool {
	if browserArticle == nil {
		return false
	}
	if httpArticle == nil {
		return true
	}

	httpLen := httpArticle.Length()
	browserLen := browserArticle.Length()

	if httpLen == 0 && browserLen > 0 {
		return true
	}

	threshold := float64(httpLen) * 1.5
	return float64(browserLen) > threshold
}

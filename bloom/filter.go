// Package bloom remembers which article URLs a process has already handled.
package bloom

import (
	"net/url"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/horizon"
)

var _ horizon.URLSet = (*Filter)(nil)

// Filter is a horizon.URLSet backed by a Bloom filter, so Test may report
// false positives but never false negatives. URLs are keyed without their
// fragment and utm_* tracking parameters, so campaign links to the same
// story collide. It is safe for concurrent use.
type Filter struct {
	mu sync.RWMutex
	bf *bloom.BloomFilter
}

// NewFilter sizes a filter for n URLs at false positive rate p.
func NewFilter(n uint, p float64) *Filter {
	return &Filter{bf: bloom.NewWithEstimates(n, p)}
}

// Add records rawURL.
func (f *Filter) Add(rawURL string) {
	k := key(rawURL)
	f.mu.Lock()
	f.bf.AddString(k)
	f.mu.Unlock()
}

// Test reports whether rawURL may have been added.
func (f *Filter) Test(rawURL string) bool {
	k := key(rawURL)
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(k)
}

// EstimatedCount approximates how many distinct URLs were added.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.bf.ApproximatedSize())
}

func key(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	if u.RawQuery != "" {
		q := u.Query()
		for name := range q {
			if strings.HasPrefix(strings.ToLower(name), "utm_") {
				q.Del(name)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

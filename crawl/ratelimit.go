package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/horizon"
	"golang.org/x/time/rate"
)

var _ horizon.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter throttles requests per publisher. Hosts are keyed without
// a leading "www." and without a port, so www.example.com and example.com
// share one token bucket.
type DomainLimiter struct {
	rps float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second to each
// publisher, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		rps:      rps,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	return d.limiter(publisherKey(host)).Wait(ctx)
}

func (d *DomainLimiter) limiter(key string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[key] = l
	}
	return l
}

func publisherKey(host string) string {
	host = strings.ToLower(host)
	if i := strings.LastIndexByte(host, ':'); i > 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return strings.TrimPrefix(host, "www.")
}

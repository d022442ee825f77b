package horizon

import "context"

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// URLSet tracks URLs that have already been seen.
type URLSet interface {
	Add(url string)

	// Test returns true if the URL might have been added.
	Test(url string) bool
}

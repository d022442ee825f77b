package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/horizon"
)

// FetchFunc retrieves the HTML at url.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc receives progress lines such as retry attempts.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff between publisher fetch attempts:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying transient failures with
// DefaultRetryDelays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logf LogFunc) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logf, DefaultRetryDelays())
}

// FetchWithRetryDelays fetches url, waiting delays[i] before attempt i+2.
// Errors coded EINVALID, ENOTFOUND or EUNAUTHORIZED and context errors are
// returned without retrying.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logf LogFunc, delays []time.Duration) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt == len(delays) || !retryable(err) {
			return "", err
		}
		if logf != nil {
			logf("  retry %s (attempt %d/%d): %v", url, attempt+2, len(delays)+1, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *horizon.Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Code {
	case horizon.EINVALID, horizon.ENOTFOUND, horizon.EUNAUTHORIZED:
		return false
	}
	return true
}

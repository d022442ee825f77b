package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/horizon"
)

// Run executes the digest command.
func (c *DigestCmd) Run(deps *Dependencies) error {
	if err := requireNews(deps); err != nil {
		return err
	}
	if deps.Digests == nil {
		fmt.Fprintln(deps.Stderr, "RESEND_API_KEY environment variable not set. Use --dry-run to preview the digest.")
		return horizon.Errorf(horizon.EUNAUTHORIZED, "RESEND_API_KEY not set")
	}

	now := time.Now()
	if c.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", c.Date, time.Local)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: invalid date %q, expected YYYY-MM-DD\n", c.Date)
			return horizon.Errorf(horizon.EINVALID, "invalid date %q", c.Date)
		}
		now = t
	}

	deliveries, err := deps.Digests.SendDigests(deps.Ctx, now)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}

	var sent, failed int
	for _, d := range deliveries {
		if d.Status == horizon.DeliverySent {
			sent++
			continue
		}
		failed++
		fmt.Fprintf(deps.Stderr, "  failed %s: %s\n", d.Email, d.Error)
	}
	fmt.Fprintf(deps.Stdout, "Sent %d digests (%d failed)\n", sent, failed)
	return nil
}

// printMailer writes messages to w instead of sending them.
type printMailer struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

func (m *printMailer) Send(_ context.Context, msg *horizon.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.n++
	body := msg.Text
	if body == "" {
		body = msg.HTML
	}
	fmt.Fprintf(m.w, "From: %s\nTo: %s\nSubject: %s\n\n%s\n\n", msg.From, strings.Join(msg.To, ", "), msg.Subject, body)
	return fmt.Sprintf("dry-run-%d", m.n), nil
}

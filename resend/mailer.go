// Package resend delivers email through the Resend API.
package resend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fwojciec/horizon"
	"github.com/resend/resend-go/v2"
)

// Ensure Mailer implements horizon.Mailer at compile time.
var _ horizon.Mailer = (*Mailer)(nil)

// Mailer sends messages with a Resend client.
type Mailer struct {
	client *resend.Client
}

// Option configures a Mailer.
type Option func(*resend.Client)

// WithBaseURL points the client at a different API origin.
func WithBaseURL(u *url.URL) Option {
	return func(c *resend.Client) {
		c.BaseURL = u
	}
}

// NewMailer creates a Mailer authenticated with apiKey.
func NewMailer(apiKey string, httpClient *http.Client, opts ...Option) (*Mailer, error) {
	if apiKey == "" {
		return nil, horizon.Errorf(horizon.EUNAUTHORIZED, "resend API key required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := resend.NewCustomClient(httpClient, apiKey)
	for _, opt := range opts {
		opt(client)
	}
	return &Mailer{client: client}, nil
}

// Send delivers msg and returns the Resend message ID.
func (m *Mailer) Send(ctx context.Context, msg *horizon.Message) (string, error) {
	if len(msg.To) == 0 {
		return "", horizon.Errorf(horizon.EINVALID, "recipient required")
	}
	if msg.From == "" {
		return "", horizon.Errorf(horizon.EINVALID, "sender required")
	}

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		Headers: msg.Headers,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

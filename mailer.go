package horizon

import "context"

// Message is an outgoing email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

// Mailer delivers email.
type Mailer interface {
	// Send delivers the message and returns the provider's message ID.
	Send(ctx context.Context, msg *Message) (id string, err error)
}

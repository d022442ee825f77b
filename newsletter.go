package horizon

import (
	"context"
	"time"
)

// DeliveryStatus is the outcome of sending one digest.
type DeliveryStatus string

// Delivery statuses.
const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// Delivery records a digest sent, or attempted, to one subscriber.
type Delivery struct {
	Email     string         `json:"email"`
	Frequency Frequency      `json:"frequency"`
	Status    DeliveryStatus `json:"status"`
	MessageID string         `json:"messageId,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// DigestService sends the headline digest to subscribers.
type DigestService interface {
	// SendDigests mails every active subscriber whose frequency is due at
	// now. A failed delivery does not stop the others.
	// Returns ENOTFOUND if there are no headlines to send.
	SendDigests(ctx context.Context, now time.Time) ([]*Delivery, error)
}

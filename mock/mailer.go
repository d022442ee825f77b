package mock

import (
	"context"
	"time"

	"github.com/fwojciec/horizon"
)

var _ horizon.Mailer = (*Mailer)(nil)

// Mailer is a mock implementation of horizon.Mailer.
type Mailer struct {
	SendFn func(ctx context.Context, msg *horizon.Message) (string, error)
}

func (m *Mailer) Send(ctx context.Context, msg *horizon.Message) (string, error) {
	return m.SendFn(ctx, msg)
}

var _ horizon.DigestService = (*DigestService)(nil)

// DigestService is a mock implementation of horizon.DigestService.
type DigestService struct {
	SendDigestsFn func(ctx context.Context, now time.Time) ([]*horizon.Delivery, error)
}

func (s *DigestService) SendDigests(ctx context.Context, now time.Time) ([]*horizon.Delivery, error) {
	return s.SendDigestsFn(ctx, now)
}

package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
)

// Ensure LoggingMailer implements horizon.Mailer.
var _ horizon.Mailer = (*LoggingMailer)(nil)

// LoggingMailer wraps a Mailer with logging. Message bodies are not logged.
type LoggingMailer struct {
	next   horizon.Mailer
	logger *slog.Logger
}

// NewLoggingMailer creates a new LoggingMailer.
func NewLoggingMailer(next horizon.Mailer, logger *slog.Logger) *LoggingMailer {
	return &LoggingMailer{next: next, logger: logger}
}

// Send delegates to the wrapped mailer and logs the delivery.
func (m *LoggingMailer) Send(ctx context.Context, msg *horizon.Message) (id string, err error) {
	defer func(begin time.Time) {
		m.logger.Info("send email",
			"to", strings.Join(msg.To, ","),
			"subject", msg.Subject,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Send(ctx, msg)
}

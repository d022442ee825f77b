package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ horizon.SubscriberService = (*SubscriberService)(nil)

// SubscriberService implements horizon.SubscriberService using SQLite.
type SubscriberService struct {
	db *DB
}

// NewSubscriberService creates a new SubscriberService.
func NewSubscriberService(db *DB) *SubscriberService {
	return &SubscriberService{db: db}
}

// normalizeEmail lowercases and trims an address so lookups are exact.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe registers sub.Email. An unsubscribed address is reactivated with
// the new frequency.
func (s *SubscriberService) Subscribe(ctx context.Context, sub *horizon.Subscriber) error {
	sub.Email = normalizeEmail(sub.Email)
	if err := sub.Validate(); err != nil {
		return err
	}
	freq, _ := horizon.ParseFrequency(string(sub.Frequency))
	sub.Frequency = freq

	existing, err := s.FindSubscriberByEmail(ctx, sub.Email)
	if err != nil && horizon.ErrorCode(err) != horizon.ENOTFOUND {
		return err
	}
	if existing != nil && existing.Active() {
		return horizon.Errorf(horizon.ECONFLICT, "email already subscribed")
	}

	sub.SubscribedAt = time.Now().UTC()
	sub.UnsubscribedAt = nil

	if existing != nil {
		sub.ID = existing.ID
		_, err = s.db.ExecContext(ctx, `
			UPDATE subscribers
			SET frequency = ?, subscribed_at = ?, unsubscribed_at = NULL
			WHERE id = ?
		`, sub.Frequency, sub.SubscribedAt.Format(time.RFC3339), sub.ID)
		return err
	}

	sub.ID = uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subscribers (id, email, frequency, subscribed_at)
		VALUES (?, ?, ?, ?)
	`, sub.ID, sub.Email, sub.Frequency, sub.SubscribedAt.Format(time.RFC3339))
	return err
}

// Unsubscribe ends the active subscription for email.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE subscribers SET unsubscribed_at = ?
		WHERE email = ? AND unsubscribed_at IS NULL
	`, time.Now().UTC().Format(time.RFC3339), normalizeEmail(email))
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return horizon.Errorf(horizon.ENOTFOUND, "subscription not found")
	}
	return nil
}

// FindSubscriberByEmail retrieves a subscriber, active or not.
func (s *SubscriberService) FindSubscriberByEmail(ctx context.Context, email string) (*horizon.Subscriber, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, frequency, subscribed_at, unsubscribed_at
		FROM subscribers WHERE email = ?
	`, normalizeEmail(email))
	sub, err := scanSubscriber(row)
	if err == sql.ErrNoRows {
		return nil, horizon.Errorf(horizon.ENOTFOUND, "subscriber not found")
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// FindSubscribers retrieves subscribers in subscription order.
func (s *SubscriberService) FindSubscribers(ctx context.Context, filter horizon.SubscriberFilter) ([]*horizon.Subscriber, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, email, frequency, subscribed_at, unsubscribed_at FROM subscribers WHERE 1=1")
	if !filter.IncludeInactive {
		query.WriteString(" AND unsubscribed_at IS NULL")
	}
	if filter.Frequency != nil {
		query.WriteString(" AND frequency = ?")
		args = append(args, *filter.Frequency)
	}
	query.WriteString(" ORDER BY subscribed_at ASC, email ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*horizon.Subscriber
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func scanSubscriber(row scanner) (*horizon.Subscriber, error) {
	var sub horizon.Subscriber
	var subscribedAt string
	var unsubscribedAt sql.NullString

	if err := row.Scan(&sub.ID, &sub.Email, &sub.Frequency, &subscribedAt, &unsubscribedAt); err != nil {
		return nil, err
	}

	var err error
	if sub.SubscribedAt, err = parseTime("subscribed_at", subscribedAt); err != nil {
		return nil, err
	}
	if unsubscribedAt.Valid {
		t, err := parseTime("unsubscribed_at", unsubscribedAt.String)
		if err != nil {
			return nil, err
		}
		sub.UnsubscribedAt = &t
	}
	return &sub, nil
}

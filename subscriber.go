package horizon

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// Frequency is how often a subscriber receives the digest.
type Frequency string

// Supported digest frequencies.
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency returns the Frequency named by s.
// An empty string means daily.
func ParseFrequency(s string) (Frequency, error) {
	switch f := Frequency(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FrequencyDaily, nil
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, nil
	}
	return "", Errorf(EINVALID, "invalid frequency %q: must be daily, weekly or monthly", s)
}

// Due reports whether a digest of this frequency goes out on t.
// Weekly digests go out on Mondays, monthly digests on the first of the month.
func (f Frequency) Due(t time.Time) bool {
	switch f {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return t.Weekday() == time.Monday
	case FrequencyMonthly:
		return t.Day() == 1
	}
	return false
}

// Label returns the capitalized frequency name, e.g. "Weekly".
func (f Frequency) Label() string {
	if f == "" {
		return ""
	}
	return strings.ToUpper(string(f[:1])) + string(f[1:])
}

// Subscriber is a newsletter recipient.
type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Frequency      Frequency  `json:"frequency"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Validate returns an error if the subscriber contains invalid fields.
func (s *Subscriber) Validate() error {
	if s.Email == "" {
		return Errorf(EINVALID, "email required")
	}
	if !ValidEmail(s.Email) {
		return Errorf(EINVALID, "invalid email format")
	}
	if _, err := ParseFrequency(string(s.Frequency)); err != nil {
		return err
	}
	return nil
}

// Active reports whether the subscriber still receives digests.
func (s *Subscriber) Active() bool {
	return s.UnsubscribedAt == nil
}

// UnsubscribeToken returns the token embedded in unsubscribe links:
// the hex-encoded SHA-256 of the email address.
func UnsubscribeToken(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// VerifyUnsubscribeToken reports whether token was issued for email.
func VerifyUnsubscribeToken(email, token string) bool {
	want := UnsubscribeToken(email)
	return subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 1
}

// SubscriberService represents a service for managing newsletter subscribers.
type SubscriberService interface {
	// Subscribe registers the email. A previously unsubscribed address is
	// reactivated. Returns ECONFLICT if the address is already active.
	Subscribe(ctx context.Context, sub *Subscriber) error

	// Unsubscribe marks the active subscription for email as ended.
	// Returns ENOTFOUND if there is no active subscription.
	Unsubscribe(ctx context.Context, email string) error

	// FindSubscriberByEmail retrieves a subscriber, active or not.
	// Returns ENOTFOUND if the address was never subscribed.
	FindSubscriberByEmail(ctx context.Context, email string) (*Subscriber, error)

	// FindSubscribers retrieves subscribers matching the filter.
	FindSubscribers(ctx context.Context, filter SubscriberFilter) ([]*Subscriber, error)
}

// SubscriberFilter represents a filter for FindSubscribers.
type SubscriberFilter struct {
	Frequency *Frequency `json:"frequency"`

	// IncludeInactive also returns unsubscribed addresses.
	IncludeInactive bool `json:"includeInactive"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

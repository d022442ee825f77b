package newsletter_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/mock"
	"github.com/fwojciec/horizon/newsletter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, 1 January 2024.
var firstMonday = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func headlines(n int) []*horizon.Headline {
	hs := make([]*horizon.Headline, n)
	for i := range hs {
		hs[i] = &horizon.Headline{
			Title:       "Story " + string(rune('A'+i)),
			Description: "About story " + string(rune('A'+i)),
			URL:         "https://example.com/story/" + string(rune('a'+i)),
		}
	}
	return hs
}

func newsSource(hs []*horizon.Headline) *mock.NewsSource {
	return &mock.NewsSource{
		TopHeadlinesFn: func(_ context.Context, _ horizon.HeadlineQuery) ([]*horizon.Headline, error) {
			return hs, nil
		},
	}
}

func subscribers(subs ...*horizon.Subscriber) *mock.SubscriberService {
	return &mock.SubscriberService{
		FindSubscribersFn: func(_ context.Context, filter horizon.SubscriberFilter) ([]*horizon.Subscriber, error) {
			if filter.IncludeInactive {
				return nil, errors.New("unexpected inactive lookup")
			}
			return subs, nil
		},
	}
}

func TestSender_SendDigests(t *testing.T) {
	t.Parallel()

	t.Run("sends only to subscribers due today", func(t *testing.T) {
		t.Parallel()

		var sent []*horizon.Message
		s := &newsletter.Sender{
			News: newsSource(headlines(3)),
			Subscribers: subscribers(
				&horizon.Subscriber{Email: "daily@example.com", Frequency: horizon.FrequencyDaily},
				&horizon.Subscriber{Email: "weekly@example.com", Frequency: horizon.FrequencyWeekly},
				&horizon.Subscriber{Email: "monthly@example.com", Frequency: horizon.FrequencyMonthly},
			),
			Mailer: &mock.Mailer{
				SendFn: func(_ context.Context, msg *horizon.Message) (string, error) {
					sent = append(sent, msg)
					return "id-" + msg.To[0], nil
				},
			},
			From:    "Horizon <news@example.com>",
			BaseURL: "https://horizon.example.com",
		}

		// 2 January 2024 is a Tuesday.
		deliveries, err := s.SendDigests(context.Background(), firstMonday.AddDate(0, 0, 1))

		require.NoError(t, err)
		require.Len(t, deliveries, 1)
		assert.Equal(t, "daily@example.com", deliveries[0].Email)
		assert.Equal(t, horizon.DeliverySent, deliveries[0].Status)
		assert.Equal(t, "id-daily@example.com", deliveries[0].MessageID)
		require.Len(t, sent, 1)
		assert.Equal(t, "Your Daily Tech News Digest", sent[0].Subject)
	})

	t.Run("sends every frequency on the first Monday of a month", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{
			News: newsSource(headlines(1)),
			Subscribers: subscribers(
				&horizon.Subscriber{Email: "daily@example.com", Frequency: horizon.FrequencyDaily},
				&horizon.Subscriber{Email: "weekly@example.com", Frequency: horizon.FrequencyWeekly},
				&horizon.Subscriber{Email: "monthly@example.com", Frequency: horizon.FrequencyMonthly},
			),
			Mailer: &mock.Mailer{
				SendFn: func(_ context.Context, _ *horizon.Message) (string, error) { return "id", nil },
			},
		}

		deliveries, err := s.SendDigests(context.Background(), firstMonday)

		require.NoError(t, err)
		assert.Len(t, deliveries, 3)
	})

	t.Run("records failures and continues", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{
			News: newsSource(headlines(2)),
			Subscribers: subscribers(
				&horizon.Subscriber{Email: "bounce@example.com", Frequency: horizon.FrequencyDaily},
				&horizon.Subscriber{Email: "ok@example.com", Frequency: horizon.FrequencyDaily},
			),
			Mailer: &mock.Mailer{
				SendFn: func(_ context.Context, msg *horizon.Message) (string, error) {
					if msg.To[0] == "bounce@example.com" {
						return "", errors.New("mailbox unavailable")
					}
					return "id", nil
				},
			},
		}

		deliveries, err := s.SendDigests(context.Background(), firstMonday)

		require.NoError(t, err)
		require.Len(t, deliveries, 2)
		assert.Equal(t, horizon.DeliveryFailed, deliveries[0].Status)
		assert.Equal(t, "mailbox unavailable", deliveries[0].Error)
		assert.Equal(t, horizon.DeliverySent, deliveries[1].Status)
	})

	t.Run("caps the digest at the headline count", func(t *testing.T) {
		t.Parallel()

		var requested int
		var body string
		s := &newsletter.Sender{
			News: &mock.NewsSource{
				TopHeadlinesFn: func(_ context.Context, q horizon.HeadlineQuery) ([]*horizon.Headline, error) {
					requested = q.PageSize
					return headlines(8), nil
				},
			},
			Subscribers: subscribers(&horizon.Subscriber{Email: "a@example.com", Frequency: horizon.FrequencyDaily}),
			Mailer: &mock.Mailer{
				SendFn: func(_ context.Context, msg *horizon.Message) (string, error) {
					body = msg.HTML
					return "id", nil
				},
			},
		}

		_, err := s.SendDigests(context.Background(), firstMonday)

		require.NoError(t, err)
		assert.Equal(t, newsletter.DefaultHeadlineCount, requested)
		assert.Contains(t, body, "Story E")
		assert.NotContains(t, body, "Story F")
	})

	t.Run("returns not found without headlines", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{News: newsSource(nil)}

		_, err := s.SendDigests(context.Background(), firstMonday)

		assert.Equal(t, horizon.ENOTFOUND, horizon.ErrorCode(err))
	})

	t.Run("returns subscriber lookup error", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{
			News: newsSource(headlines(1)),
			Subscribers: &mock.SubscriberService{
				FindSubscribersFn: func(_ context.Context, _ horizon.SubscriberFilter) ([]*horizon.Subscriber, error) {
					return nil, errors.New("database closed")
				},
			},
		}

		_, err := s.SendDigests(context.Background(), firstMonday)

		require.EqualError(t, err, "database closed")
	})
}

func TestSender_Message(t *testing.T) {
	t.Parallel()

	t.Run("includes unsubscribe link and headers", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{
			From:     "Horizon <news@example.com>",
			ReplyTo:  "editor@example.com",
			SiteName: "Event Horizon Tech",
			BaseURL:  "https://horizon.example.com",
		}
		sub := &horizon.Subscriber{Email: "reader@example.com", Frequency: horizon.FrequencyWeekly}

		msg, err := s.Message(sub, headlines(2))

		require.NoError(t, err)
		assert.Equal(t, []string{"reader@example.com"}, msg.To)
		assert.Equal(t, "editor@example.com", msg.ReplyTo)
		assert.Equal(t, "Your Weekly Tech News Digest", msg.Subject)
		assert.Contains(t, msg.HTML, "Event Horizon Tech")
		assert.Contains(t, msg.HTML, "Your Weekly Tech News Update")
		assert.Contains(t, msg.HTML, "https://example.com/story/a")

		want := newsletter.UnsubscribeURL("https://horizon.example.com", "reader@example.com")
		assert.Equal(t, "<"+want+">", msg.Headers["List-Unsubscribe"])
		assert.Contains(t, msg.HTML, strings.ReplaceAll(want, "&", "&amp;"))
		assert.Empty(t, msg.Text)
	})

	t.Run("escapes headline text", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{BaseURL: "https://horizon.example.com"}
		sub := &horizon.Subscriber{Email: "reader@example.com", Frequency: horizon.FrequencyDaily}

		msg, err := s.Message(sub, []*horizon.Headline{{
			Title: "<script>alert(1)</script>",
			URL:   "javascript:alert(1)",
		}})

		require.NoError(t, err)
		assert.NotContains(t, msg.HTML, "<script>alert(1)</script>")
		assert.NotContains(t, msg.HTML, `href="javascript:`)
	})

	t.Run("adds text part through converter", func(t *testing.T) {
		t.Parallel()

		s := &newsletter.Sender{
			BaseURL: "https://horizon.example.com",
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					return "plain digest", nil
				},
			},
		}
		sub := &horizon.Subscriber{Email: "reader@example.com", Frequency: horizon.FrequencyDaily}

		msg, err := s.Message(sub, headlines(1))

		require.NoError(t, err)
		assert.Equal(t, "plain digest", msg.Text)
	})
}

func TestUnsubscribeURL(t *testing.T) {
	t.Parallel()

	got := newsletter.UnsubscribeURL("https://horizon.example.com", "a+b@example.com")

	assert.Equal(t,
		"https://horizon.example.com/api/newsletter/unsubscribe?email=a%2Bb%40example.com&token="+horizon.UnsubscribeToken("a+b@example.com"),
		got)
}

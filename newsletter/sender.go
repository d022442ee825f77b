// Package newsletter sends the headline digest to subscribers.
package newsletter

import (
	"context"
	"time"

	"github.com/fwojciec/horizon"
)

// DefaultHeadlineCount is the number of headlines in each digest.
const DefaultHeadlineCount = 5

// Ensure Sender implements horizon.DigestService at compile time.
var _ horizon.DigestService = (*Sender)(nil)

// Sender mails the current top headlines to every subscriber whose
// frequency is due.
type Sender struct {
	News        horizon.NewsSource
	Subscribers horizon.SubscriberService
	Mailer      horizon.Mailer

	// Converter, if set, produces the plain-text part from the HTML body.
	Converter horizon.Converter

	From     string
	ReplyTo  string
	SiteName string

	// BaseURL is the public origin used for unsubscribe and site links.
	BaseURL string

	HeadlineCount int
}

// SendDigests implements horizon.DigestService.
func (s *Sender) SendDigests(ctx context.Context, now time.Time) ([]*horizon.Delivery, error) {
	count := s.HeadlineCount
	if count <= 0 {
		count = DefaultHeadlineCount
	}

	headlines, err := s.News.TopHeadlines(ctx, horizon.HeadlineQuery{PageSize: count})
	if err != nil {
		return nil, err
	}
	if len(headlines) == 0 {
		return nil, horizon.Errorf(horizon.ENOTFOUND, "no news articles available")
	}
	if len(headlines) > count {
		headlines = headlines[:count]
	}

	subscribers, err := s.Subscribers.FindSubscribers(ctx, horizon.SubscriberFilter{})
	if err != nil {
		return nil, err
	}

	deliveries := make([]*horizon.Delivery, 0, len(subscribers))
	for _, sub := range subscribers {
		if !sub.Frequency.Due(now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deliveries, err
		}
		deliveries = append(deliveries, s.deliver(ctx, sub, headlines))
	}
	return deliveries, nil
}

// deliver renders and sends one digest, recording the outcome.
func (s *Sender) deliver(ctx context.Context, sub *horizon.Subscriber, headlines []*horizon.Headline) *horizon.Delivery {
	d := &horizon.Delivery{Email: sub.Email, Frequency: sub.Frequency}

	msg, err := s.Message(sub, headlines)
	if err == nil {
		d.MessageID, err = s.Mailer.Send(ctx, msg)
	}
	if err != nil {
		d.Status = horizon.DeliveryFailed
		d.Error = err.Error()
		return d
	}
	d.Status = horizon.DeliverySent
	return d
}

// Message builds the digest email for sub without sending it.
func (s *Sender) Message(sub *horizon.Subscriber, headlines []*horizon.Headline) (*horizon.Message, error) {
	digest := &Digest{
		SiteName:       s.SiteName,
		SiteURL:        s.BaseURL,
		Frequency:      sub.Frequency,
		Headlines:      headlines,
		UnsubscribeURL: UnsubscribeURL(s.BaseURL, sub.Email),
	}

	body, err := RenderHTML(digest)
	if err != nil {
		return nil, err
	}

	msg := &horizon.Message{
		From:    s.From,
		To:      []string{sub.Email},
		ReplyTo: s.ReplyTo,
		Subject: digest.Subject(),
		HTML:    body,
		Headers: map[string]string{
			"List-Unsubscribe": "<" + digest.UnsubscribeURL + ">",
		},
	}
	if s.Converter != nil {
		text, err := s.Converter.Convert(body)
		if err != nil {
			return nil, err
		}
		msg.Text = text
	}
	return msg, nil
}

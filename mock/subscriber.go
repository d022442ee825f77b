package mock

import (
	"context"

	"github.com/fwojciec/horizon"
)

var _ horizon.SubscriberService = (*SubscriberService)(nil)

// SubscriberService is a mock implementation of horizon.SubscriberService.
type SubscriberService struct {
	SubscribeFn             func(ctx context.Context, sub *horizon.Subscriber) error
	UnsubscribeFn           func(ctx context.Context, email string) error
	FindSubscriberByEmailFn func(ctx context.Context, email string) (*horizon.Subscriber, error)
	FindSubscribersFn       func(ctx context.Context, filter horizon.SubscriberFilter) ([]*horizon.Subscriber, error)
}

func (s *SubscriberService) Subscribe(ctx context.Context, sub *horizon.Subscriber) error {
	return s.SubscribeFn(ctx, sub)
}

func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	return s.UnsubscribeFn(ctx, email)
}

func (s *SubscriberService) FindSubscriberByEmail(ctx context.Context, email string) (*horizon.Subscriber, error) {
	return s.FindSubscriberByEmailFn(ctx, email)
}

func (s *SubscriberService) FindSubscribers(ctx context.Context, filter horizon.SubscriberFilter) ([]*horizon.Subscriber, error) {
	return s.FindSubscribersFn(ctx, filter)
}

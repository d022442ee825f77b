package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/horizon"
)

// Run executes the subscribe command.
func (c *SubscribeCmd) Run(deps *Dependencies) error {
	freq, err := horizon.ParseFrequency(c.Frequency)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}

	sub := &horizon.Subscriber{
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		Frequency: freq,
	}
	err = deps.Subscribers.Subscribe(deps.Ctx, sub)
	switch {
	case horizon.ErrorCode(err) == horizon.ECONFLICT:
		fmt.Fprintf(deps.Stdout, "%s is already subscribed\n", sub.Email)
		return nil
	case err != nil:
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Subscribed %s (%s)\n", sub.Email, sub.Frequency)
	fmt.Fprintf(deps.Stdout, "Unsubscribe token: %s\n", horizon.UnsubscribeToken(sub.Email))
	return nil
}

// Run executes the unsubscribe command.
func (c *UnsubscribeCmd) Run(deps *Dependencies) error {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if err := deps.Subscribers.Unsubscribe(deps.Ctx, email); err != nil {
		if horizon.ErrorCode(err) == horizon.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s is not subscribed. Use 'horizon subscribers' to see active addresses.\n", email)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Unsubscribed %s\n", email)
	return nil
}

// Run executes the subscribers command.
func (c *SubscribersCmd) Run(deps *Dependencies) error {
	filter := horizon.SubscriberFilter{IncludeInactive: c.All}
	if c.Frequency != "" {
		freq, err := horizon.ParseFrequency(c.Frequency)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
			return err
		}
		filter.Frequency = &freq
	}

	subs, err := deps.Subscribers.FindSubscribers(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", horizon.ErrorMessage(err))
		return err
	}

	if len(subs) == 0 {
		fmt.Fprintln(deps.Stdout, "No subscribers found. Use 'horizon subscribe' to add one.")
		return nil
	}

	for _, s := range subs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s", s.Email, s.Frequency, s.SubscribedAt.Format("2006-01-02"))
		if !s.Active() {
			fmt.Fprintf(deps.Stdout, "  unsubscribed %s", s.UnsubscribedAt.Format("2006-01-02"))
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}

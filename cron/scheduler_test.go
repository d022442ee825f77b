package cron_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/horizon"
	"github.com/fwojciec/horizon/cron"
	"github.com/fwojciec/horizon/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduler(buf *bytes.Buffer) *cron.Scheduler {
	logger := slog.New(slog.NewTextHandler(buf, nil))
	return cron.NewScheduler(logger, time.UTC)
}

func TestScheduler_Add(t *testing.T) {
	t.Parallel()

	t.Run("rejects malformed spec", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)

		err := s.Add("digest", "every morning", func(context.Context) error { return nil })

		assert.Equal(t, horizon.EINVALID, horizon.ErrorCode(err))
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)
		job := func(context.Context) error { return nil }
		require.NoError(t, s.Add("digest", cron.DefaultDigestSpec, job))

		err := s.Add("digest", "0 9 * * *", job)

		assert.Equal(t, horizon.ECONFLICT, horizon.ErrorCode(err))
	})

	t.Run("lists entries with next run after start", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)
		job := func(context.Context) error { return nil }
		require.NoError(t, s.Add("refresh", "*/30 * * * *", job))
		require.NoError(t, s.Add("digest", cron.DefaultDigestSpec, job))

		s.Start()
		defer func() { _ = s.Stop(context.Background()) }()

		entries := s.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "digest", entries[0].Name)
		assert.Equal(t, cron.DefaultDigestSpec, entries[0].Spec)
		assert.Equal(t, 8, entries[0].Next.Hour())
		assert.Equal(t, 0, entries[0].Next.Minute())
		assert.Equal(t, "refresh", entries[1].Name)
		assert.True(t, entries[1].Next.After(time.Now()))
	})
}

func TestScheduler_Location(t *testing.T) {
	t.Parallel()

	berlin := time.FixedZone("CET", 60*60)
	assert.Same(t, berlin, cron.NewScheduler(slog.New(slog.DiscardHandler), berlin).Location())
	assert.Equal(t, time.UTC, cron.NewScheduler(slog.New(slog.DiscardHandler), nil).Location())
}

func TestScheduler_RunNow(t *testing.T) {
	t.Parallel()

	t.Run("runs job and logs outcome", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)
		ran := false
		require.NoError(t, s.Add("digest", cron.DefaultDigestSpec, func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "job context should carry a deadline")
			ran = true
			return nil
		}))

		err := s.RunNow(context.Background(), "digest")

		require.NoError(t, err)
		assert.True(t, ran)
		assert.Contains(t, buf.String(), "job=digest")
	})

	t.Run("returns and logs job error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)
		require.NoError(t, s.Add("digest", cron.DefaultDigestSpec, func(context.Context) error {
			return errors.New("smtp down")
		}))

		err := s.RunNow(context.Background(), "digest")

		require.EqualError(t, err, "smtp down")
		assert.Contains(t, buf.String(), "level=ERROR")
	})

	t.Run("bounds the run by the configured timeout", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := cron.NewScheduler(slog.New(slog.NewTextHandler(&buf, nil)), time.UTC, cron.WithTimeout(20*time.Millisecond))
		require.NoError(t, s.Add("refresh", "*/30 * * * *", func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))

		err := s.RunNow(context.Background(), "refresh")

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("non-positive timeout keeps the default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := cron.NewScheduler(slog.New(slog.NewTextHandler(&buf, nil)), time.UTC, cron.WithTimeout(0))
		require.NoError(t, s.Add("digest", cron.DefaultDigestSpec, func(ctx context.Context) error {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(cron.DefaultJobTimeout), deadline, time.Minute)
			return nil
		}))

		require.NoError(t, s.RunNow(context.Background(), "digest"))
	})

	t.Run("returns not found for unknown job", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		s := newScheduler(&buf)

		err := s.RunNow(context.Background(), "missing")

		assert.Equal(t, horizon.ENOTFOUND, horizon.ErrorCode(err))
	})
}

func TestDigestJob(t *testing.T) {
	t.Parallel()

	t.Run("sends now in the schedule's time zone", func(t *testing.T) {
		t.Parallel()

		auckland := time.FixedZone("NZST", 12*60*60)
		var got time.Time
		job := cron.DigestJob(&mock.DigestService{
			SendDigestsFn: func(_ context.Context, now time.Time) ([]*horizon.Delivery, error) {
				got = now
				return nil, horizon.Errorf(horizon.ENOTFOUND, "no news articles available")
			},
		}, auckland)

		err := job(context.Background())

		assert.Equal(t, horizon.ENOTFOUND, horizon.ErrorCode(err))
		assert.WithinDuration(t, time.Now(), got, time.Minute)
		assert.Same(t, auckland, got.Location())
	})

	t.Run("nil location means UTC", func(t *testing.T) {
		t.Parallel()

		var got time.Time
		job := cron.DigestJob(&mock.DigestService{
			SendDigestsFn: func(_ context.Context, now time.Time) ([]*horizon.Delivery, error) {
				got = now
				return nil, nil
			},
		}, nil)

		require.NoError(t, job(context.Background()))
		assert.Equal(t, time.UTC, got.Location())
	})
}

// Package cron runs recurring jobs such as the newsletter digest on cron
// schedules.
package cron

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/horizon"
	cronlib "github.com/robfig/cron/v3"
)

// DefaultDigestSpec sends the digest every day at 08:00.
const DefaultDigestSpec = "0 8 * * *"

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 10 * time.Minute

// Job is a unit of scheduled work.
type Job func(ctx context.Context) error

// DigestJob returns a Job that sends the digest as of the time it runs,
// seen from loc. Weekly and monthly subscribers are due by weekday and day of
// month, so loc should be the scheduler's location.
func DigestJob(digests horizon.DigestService, loc *time.Location) Job {
	if loc == nil {
		loc = time.UTC
	}
	return func(ctx context.Context) error {
		_, err := digests.SendDigests(ctx, time.Now().In(loc))
		return err
	}
}

// Entry describes a registered job.
type Entry struct {
	Name string
	Spec string
	Next time.Time
}

// Scheduler runs named jobs on standard five-field cron specs.
// A job that is still running when its next tick fires is skipped.
type Scheduler struct {
	cron    *cronlib.Cron
	logger  *slog.Logger
	loc     *time.Location
	timeout time.Duration

	mu   sync.Mutex
	jobs map[string]registered
}

type registered struct {
	id   cronlib.EntryID
	spec string
	job  Job
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimeout sets the per-run timeout. Non-positive values keep
// DefaultJobTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewScheduler creates a stopped Scheduler evaluating specs in loc.
func NewScheduler(logger *slog.Logger, loc *time.Location, opts ...Option) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	l := cronLogger{logger}
	s := &Scheduler{
		cron: cronlib.New(
			cronlib.WithLocation(loc),
			cronlib.WithLogger(l),
			cronlib.WithChain(cronlib.Recover(l), cronlib.SkipIfStillRunning(l)),
		),
		logger:  logger,
		loc:     loc,
		timeout: DefaultJobTimeout,
		jobs:    make(map[string]registered),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone schedules are evaluated in.
func (s *Scheduler) Location() *time.Location { return s.loc }

// Add registers job under name. Returns EINVALID for a malformed spec and
// ECONFLICT if the name is taken.
func (s *Scheduler) Add(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return horizon.Errorf(horizon.ECONFLICT, "job %q already scheduled", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		_ = s.run(context.Background(), name, job)
	})
	if err != nil {
		return horizon.Errorf(horizon.EINVALID, "invalid cron spec %q: %v", spec, err)
	}
	s.jobs[name] = registered{id: id, spec: spec, job: job}
	return nil
}

// RunNow runs the named job synchronously, outside its schedule.
// Returns ENOTFOUND if no job has that name.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	r, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return horizon.Errorf(horizon.ENOTFOUND, "job %q not found", name)
	}
	return s.run(ctx, name, r.job)
}

func (s *Scheduler) run(ctx context.Context, name string, job Job) (err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "scheduled job",
			"job", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return job(ctx)
}

// Entries returns the registered jobs sorted by name. Next is zero until
// the scheduler is started.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]Entry, 0, len(s.jobs))
	for name, r := range s.jobs {
		entries = append(entries, Entry{
			Name: name,
			Spec: r.spec,
			Next: s.cron.Entry(r.id).Next,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to the cron library's logger.
type cronLogger struct {
	log *slog.Logger
}

var _ cronlib.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}

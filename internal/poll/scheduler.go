// Package poll drives the periodic fetches that keep the cache fresh.
//
// Each resource gets its own Task with an independent ticker. A Task has
// at most one fetch in flight: a tick that finds the previous fetch still
// running is skipped rather than queued. Successful payloads are decoded
// and written to the cache; failures are recorded on the cache entry and
// reported once through the notifier. Nothing is retried outside of the
// regular cadence.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
	"github.com/rileyhilliard/vdash/internal/notify"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/telemetry"
)

// Scheduler starts and owns poll tasks.
type Scheduler struct {
	client   source.Client
	notifier notify.Notifier
	metrics  *telemetry.Metrics
	log      logger.Logger
	timeout  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	tasks []*Task
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithNotifier sets where failures are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Scheduler) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithMetrics sets the telemetry recorder.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		s.log = logger.OrDefault(l)
	}
}

// WithFetchTimeout bounds every fetch. Zero means no timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a scheduler that fetches through client.
func NewScheduler(client source.Client, opts ...Option) *Scheduler {
	s := &Scheduler{
		client:   client,
		notifier: notify.Discard,
		log:      logger.NewEnvLogger("[poll]"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches a task for b. The first fetch is issued immediately and
// then once per interval until ctx is done or the task is stopped.
func (s *Scheduler) Start(ctx context.Context, b Binding) *Task {
	if b.Interval <= 0 {
		b.Interval = DefaultInterval(b.Resource)
	}
	t := newTask(ctx, s, b)

	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()

	go t.loop()
	s.log.Debug("polling %s every %s", b.Resource, b.Interval)
	return t
}

// Tasks returns the tasks started so far.
func (s *Scheduler) Tasks() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Task(nil), s.tasks...)
}

// Trigger asks every task for an immediate refresh.
func (s *Scheduler) Trigger() {
	for _, t := range s.Tasks() {
		t.Trigger()
	}
}

// Stop stops every task and waits for in-flight fetches to unwind.
func (s *Scheduler) Stop() {
	for _, t := range s.Tasks() {
		t.Stop()
	}
}

// Increment sends the one-shot counter increment in the background. It
// is never retried. A failure is reported through the notifier. The
// returned channel receives the outcome and can be ignored.
func (s *Scheduler) Increment(ctx context.Context) <-chan error {
	out := make(chan error, 1)
	go func() {
		err := s.client.Increment(ctx, source.Counter)
		if errors.IsCanceled(err) {
			out <- err
			return
		}
		s.metrics.RecordIncrement(err)
		if err != nil {
			s.log.Warn("increment failed: %v", err)
			s.report(notify.MsgIncrementFailed)
		}
		out <- err
	}()
	return out
}

func (s *Scheduler) report(message string) {
	s.notifier.Notify(message, notify.SeverityError)
	s.metrics.RecordNotification(notify.SeverityError.String())
}

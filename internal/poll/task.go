package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
)

// State of a task's fetch cycle.
type State int

const (
	// Idle means no fetch is running; the next tick starts one.
	Idle State = iota
	// Fetching means a fetch is in flight; ticks are skipped.
	Fetching
	// Stopped means the task has been torn down.
	Stopped
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Stopped:
		return "stopped"
	default:
		return "idle"
	}
}

// Task polls one resource until stopped.
type Task struct {
	binding Binding
	sched   *Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	inFlight atomic.Bool
	trigger  chan struct{}
	done     chan struct{}
	fetches  sync.WaitGroup
	stopOnce sync.Once
}

func newTask(parent context.Context, s *Scheduler, b Binding) *Task {
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		binding: b,
		sched:   s,
		ctx:     ctx,
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Resource returns the polled resource.
func (t *Task) Resource() source.Resource {
	return t.binding.Resource
}

// State reports whether the task is idle, fetching, or stopped.
func (t *Task) State() State {
	if t.ctx.Err() != nil {
		return Stopped
	}
	if t.inFlight.Load() {
		return Fetching
	}
	return Idle
}

// Trigger requests an immediate fetch. It is skipped like any other tick
// when a fetch is already running.
func (t *Task) Trigger() {
	select {
	case t.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the timer and any in-flight fetch, then waits for the task
// to wind down. Responses arriving afterwards are discarded. Safe to call
// more than once.
func (t *Task) Stop() {
	t.stopOnce.Do(t.cancel)
	<-t.done
	t.fetches.Wait()
}

// Done is closed once the task's loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) loop() {
	defer close(t.done)

	ticker := time.NewTicker(t.binding.Interval)
	defer ticker.Stop()

	t.tick()
	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			t.tick()
		case <-t.trigger:
			t.tick()
		}
	}
}

// tick starts a fetch unless one is already running.
func (t *Task) tick() {
	if t.ctx.Err() != nil {
		return
	}
	if !t.inFlight.CompareAndSwap(false, true) {
		t.sched.metrics.RecordSkip(string(t.binding.Resource))
		t.sched.log.Debug("%s: previous fetch still running, skipping tick", t.binding.Resource)
		return
	}
	t.fetches.Add(1)
	go t.fetch()
}

func (t *Task) live() bool {
	return t.ctx.Err() == nil
}

func (t *Task) fetch() {
	defer t.fetches.Done()
	defer t.inFlight.Store(false)

	ctx := t.ctx
	if t.sched.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.sched.timeout)
		defer cancel()
	}

	r := t.binding.Resource
	t.binding.refreshing(true)
	start := t.sched.now()

	raw, err := t.sched.client.Fetch(ctx, r)
	if err == nil {
		err = t.binding.store(raw, t.live)
	}

	if !t.live() {
		t.sched.log.Debug("%s: task stopped, discarding response", r)
		return
	}

	t.sched.metrics.RecordFetch(string(r), err, t.sched.now().Sub(start), t.sched.now())
	if err != nil {
		t.binding.markError(err)
		t.sched.log.Warn("%s: %s (%s)", r, errors.KindOf(err), oneLine(err))
		t.sched.report(t.binding.FailureMessage)
	}
}

// oneLine flattens a structured error for a log line.
func oneLine(err error) string {
	var e *errors.Error
	if errors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return err.Error()
}

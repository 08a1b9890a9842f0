// Package cache holds the latest known value of each polled resource.
//
// Every slot is a copy-on-write pointer: writers build a new Entry and
// swap it in, readers load whatever is current without taking a lock.
// A failed fetch only records the error, so the previous value keeps
// being served.
package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/vdash/internal/visits"
)

// Names of the cached resources.
const (
	CounterName = "counter"
	TrendsName  = "trends"
)

// Cache owns one slot per resource for its whole lifetime.
type Cache struct {
	Counter *Slot[visits.CounterSnapshot]
	Trends  *Slot[visits.TrendSeries]

	now func() time.Time

	mu       sync.RWMutex // writers hold R, Dispose holds W
	changes  chan struct{}
	disposed atomic.Bool
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache. Both slots exist from the start and hold
// absent values.
func New(opts ...Option) *Cache {
	c := &Cache{
		now:     time.Now,
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Counter = newSlot[visits.CounterSnapshot](c, CounterName)
	c.Trends = newSlot[visits.TrendSeries](c, TrendsName)
	return c
}

// Snapshot is a consistent-per-slot view of the whole cache.
type Snapshot struct {
	Counter Entry[visits.CounterSnapshot]
	Trends  Entry[visits.TrendSeries]
}

// Snapshot loads both slots.
func (c *Cache) Snapshot() Snapshot {
	return Snapshot{
		Counter: c.Counter.Load(),
		Trends:  c.Trends.Load(),
	}
}

// Derive computes the derived metrics from the current snapshot.
func (s Snapshot) Derive() visits.DerivedMetrics {
	var trend visits.TrendSeries
	if s.Trends.Value != nil {
		trend = *s.Trends.Value
	}
	return visits.Derive(s.Counter.Value, trend)
}

// MarkError records err against the named slot. It reports false for an
// unknown name or a disposed cache.
func (c *Cache) MarkError(name string, err error) bool {
	switch name {
	case CounterName:
		return c.Counter.MarkError(err)
	case TrendsName:
		return c.Trends.MarkError(err)
	}
	return false
}

// Changes returns a channel that receives after any slot mutation.
// Signals are coalesced: one receive may stand for several writes, so
// readers should reload the slots. The channel is closed by Dispose.
func (c *Cache) Changes() <-chan struct{} {
	return c.changes
}

// Dispose stops the cache from accepting writes and closes the change
// channel. Responses that settle after Dispose are discarded. Safe to
// call more than once.
func (c *Cache) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed.Swap(true) {
		return
	}
	close(c.changes)
}

// Disposed reports whether Dispose has been called.
func (c *Cache) Disposed() bool {
	return c.disposed.Load()
}

// signal wakes a change listener. Caller holds c.mu for reading.
func (c *Cache) signal() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

// Slot is the cache entry for a single resource.
type Slot[T any] struct {
	name  string
	owner *Cache

	mu  sync.Mutex // serializes writers
	ptr atomic.Pointer[Entry[T]]
}

func newSlot[T any](owner *Cache, name string) *Slot[T] {
	s := &Slot[T]{name: name, owner: owner}
	s.ptr.Store(&Entry[T]{})
	return s
}

// Name returns the resource name of the slot.
func (s *Slot[T]) Name() string {
	return s.name
}

// Load returns the current entry. It never blocks on writers.
func (s *Slot[T]) Load() Entry[T] {
	return *s.ptr.Load()
}

// Set replaces the value wholesale and clears any recorded error. The
// caller must not modify v afterwards.
func (s *Slot[T]) Set(v T) bool {
	return s.update(func(e *Entry[T], now time.Time) {
		e.Value = &v
		e.LastError = nil
		e.Refreshing = false
		e.UpdatedAt = now
		e.AttemptedAt = now
	})
}

// MarkError records a failed attempt and leaves the value untouched.
func (s *Slot[T]) MarkError(err error) bool {
	return s.update(func(e *Entry[T], now time.Time) {
		e.LastError = err
		e.Refreshing = false
		e.AttemptedAt = now
	})
}

// MarkRefreshing flags that a fetch for this slot is running.
func (s *Slot[T]) MarkRefreshing(refreshing bool) bool {
	return s.update(func(e *Entry[T], _ time.Time) {
		e.Refreshing = refreshing
	})
}

func (s *Slot[T]) update(mutate func(e *Entry[T], now time.Time)) bool {
	s.owner.mu.RLock()
	defer s.owner.mu.RUnlock()
	if s.owner.disposed.Load() {
		return false
	}

	s.mu.Lock()
	next := *s.ptr.Load()
	mutate(&next, s.owner.now())
	next.Version++
	s.ptr.Store(&next)
	s.mu.Unlock()

	s.owner.signal()
	return true
}

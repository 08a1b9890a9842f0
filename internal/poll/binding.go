package poll

import (
	"time"

	"github.com/rileyhilliard/vdash/internal/cache"
	"github.com/rileyhilliard/vdash/internal/notify"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// Default poll intervals.
const (
	DefaultCounterInterval = 1000 * time.Millisecond
	DefaultTrendsInterval  = 500 * time.Millisecond
)

// DefaultInterval returns the poll cadence used when a binding sets none.
func DefaultInterval(r source.Resource) time.Duration {
	if r == source.Counter {
		return DefaultCounterInterval
	}
	return DefaultTrendsInterval
}

// Binding ties a polled resource to the cache slot its decoded payload
// is written to.
type Binding struct {
	Resource source.Resource
	Interval time.Duration
	// FailureMessage is the notification raised once per failed attempt.
	FailureMessage string

	store      func(raw source.RawPayload, live func() bool) error
	markError  func(err error) bool
	refreshing func(on bool) bool
}

// Bind builds a Binding for any slot type. decode turns the raw payload
// into the slot's value; a decode error is recorded like a fetch failure.
func Bind[T any](r source.Resource, interval time.Duration, slot *cache.Slot[T], decode func(source.RawPayload) (T, error), failureMessage string) Binding {
	return Binding{
		Resource:       r,
		Interval:       interval,
		FailureMessage: failureMessage,
		store: func(raw source.RawPayload, live func() bool) error {
			v, err := decode(raw)
			if err != nil {
				return err
			}
			if live() {
				slot.Set(v)
			}
			return nil
		},
		markError:  slot.MarkError,
		refreshing: slot.MarkRefreshing,
	}
}

// CounterBinding polls the counter resource into c.Counter.
func CounterBinding(c *cache.Cache, interval time.Duration) Binding {
	return Bind(source.Counter, interval, c.Counter, func(raw source.RawPayload) (visits.CounterSnapshot, error) {
		snap, err := source.DecodeCounter(raw)
		if err != nil {
			return visits.CounterSnapshot{}, err
		}
		return *snap, nil
	}, notify.MsgCounterLoadFailed)
}

// TrendsBinding polls the trends resource into c.Trends.
func TrendsBinding(c *cache.Cache, interval time.Duration) Binding {
	return Bind(source.Trends, interval, c.Trends, source.DecodeTrends, notify.MsgTrendsLoadFailed)
}

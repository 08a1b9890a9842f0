package cache

import (
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
)

// Entry is an immutable snapshot of one cached resource. Value is nil
// until the first successful fetch and is never cleared afterwards.
type Entry[T any] struct {
	Value      *T
	LastError  error
	Refreshing bool

	// Version increases with every mutation of the entry.
	Version     uint64
	UpdatedAt   time.Time // last successful Set
	AttemptedAt time.Time // last Set or MarkError
}

// Present reports whether a value has ever been stored.
func (e Entry[T]) Present() bool {
	return e.Value != nil
}

// Stale reports whether the latest attempt failed while an older value is
// still being served.
func (e Entry[T]) Stale() bool {
	return e.Value != nil && e.LastError != nil
}

// Kind classifies LastError.
func (e Entry[T]) Kind() errors.Kind {
	return errors.KindOf(e.LastError)
}

// Age returns how long ago the value was last replaced, or 0 when absent.
func (e Entry[T]) Age(now time.Time) time.Duration {
	if e.Value == nil || e.UpdatedAt.IsZero() {
		return 0
	}
	return now.Sub(e.UpdatedAt)
}

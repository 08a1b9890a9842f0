package source

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// SharedRecorder is told each time a fetch result is handed to a caller
// that joined a request already in flight. *telemetry.Metrics satisfies it.
type SharedRecorder interface {
	RecordShared(resource string)
}

// Deduped wraps a Client so concurrent fetches of the same resource share
// one request. Increments always go through, since each one is a write.
type Deduped struct {
	next     Client
	group    singleflight.Group
	timeout  time.Duration
	recorder SharedRecorder
}

// DedupedOption configures a Deduped.
type DedupedOption func(*Deduped)

// WithSharedTimeout bounds each shared request. Zero leaves it unbounded,
// relying on the wrapped client.
func WithSharedTimeout(d time.Duration) DedupedOption {
	return func(dd *Deduped) {
		dd.timeout = d
	}
}

// WithSharedRecorder reports shared results to r.
func WithSharedRecorder(r SharedRecorder) DedupedOption {
	return func(d *Deduped) {
		d.recorder = r
	}
}

// NewDeduped wraps next.
func NewDeduped(next Client, opts ...DedupedOption) *Deduped {
	d := &Deduped{next: next}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch implements Client. The shared request is detached from any one
// caller's cancellation; a caller whose context ends stops waiting, and the
// request keeps running for the others.
func (d *Deduped) Fetch(ctx context.Context, r Resource) (RawPayload, error) {
	ch := d.group.DoChan(string(r), func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)
		if d.timeout > 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, d.timeout)
			defer cancel()
		}
		return d.next.Fetch(shared, r)
	})

	select {
	case res := <-ch:
		if res.Shared && d.recorder != nil {
			d.recorder.RecordShared(string(r))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(RawPayload), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Increment implements Client.
func (d *Deduped) Increment(ctx context.Context, r Resource) error {
	return d.next.Increment(ctx, r)
}

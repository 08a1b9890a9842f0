// Package testing provides test doubles for the source package.
package testing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/visits"
)

// Response is one scripted answer to Fetch.
type Response struct {
	Payload source.RawPayload
	Err     error
}

// FakeClient simulates the metric source for testing. Responses are
// scripted per resource: queued responses are served in order and the
// last one keeps being served once the queue is drained.
type FakeClient struct {
	mu sync.Mutex

	responses    map[source.Resource][]Response
	incrementErr error
	gate         chan struct{}

	// Call tracking
	fetchCalls     map[source.Resource]int
	incrementCalls map[source.Resource]int
	inFlight       map[source.Resource]int
	maxInFlight    map[source.Resource]int
}

var _ source.Client = (*FakeClient)(nil)

// NewFakeClient creates a fake that answers every fetch with an empty
// 200 body until scripted otherwise.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		responses:      make(map[source.Resource][]Response),
		fetchCalls:     make(map[source.Resource]int),
		incrementCalls: make(map[source.Resource]int),
		inFlight:       make(map[source.Resource]int),
		maxInFlight:    make(map[source.Resource]int),
	}
}

// SetResponse replaces any scripted responses for r with a single one.
func (f *FakeClient) SetResponse(r source.Resource, payload source.RawPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[r] = []Response{{Payload: payload, Err: err}}
}

// QueueResponse appends a response for r.
func (f *FakeClient) QueueResponse(r source.Resource, payload source.RawPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[r] = append(f.responses[r], Response{Payload: payload, Err: err})
}

// SetIncrementError makes every Increment fail with err.
func (f *FakeClient) SetIncrementError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementErr = err
}

// Block makes subsequent fetches wait until Unblock is called or their
// context ends.
func (f *FakeClient) Block() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

// Unblock releases every fetch waiting on Block.
func (f *FakeClient) Unblock() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Fetch implements source.Client.
func (f *FakeClient) Fetch(ctx context.Context, r source.Resource) (source.RawPayload, error) {
	f.mu.Lock()
	f.fetchCalls[r]++
	f.inFlight[r]++
	if f.inFlight[r] > f.maxInFlight[r] {
		f.maxInFlight[r] = f.inFlight[r]
	}
	resp := f.next(r)
	gate := f.gate
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight[r]--
		f.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return resp.Payload, resp.Err
}

// next pops the head of r's queue, keeping the last response. Caller holds mu.
func (f *FakeClient) next(r source.Resource) Response {
	q := f.responses[r]
	if len(q) == 0 {
		return Response{Payload: source.RawPayload("{}")}
	}
	resp := q[0]
	if len(q) > 1 {
		f.responses[r] = q[1:]
	}
	return resp
}

// Increment implements source.Client.
func (f *FakeClient) Increment(ctx context.Context, r source.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls[r]++
	return f.incrementErr
}

// FetchCalls returns how many times r was fetched.
func (f *FakeClient) FetchCalls(r source.Resource) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls[r]
}

// IncrementCalls returns how many times r was incremented.
func (f *FakeClient) IncrementCalls(r source.Resource) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.incrementCalls[r]
}

// InFlight returns the number of fetches of r currently running.
func (f *FakeClient) InFlight(r source.Resource) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight[r]
}

// MaxInFlight returns the highest number of concurrent fetches of r seen.
func (f *FakeClient) MaxInFlight(r source.Resource) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight[r]
}

// CounterPayload encodes a counter response body.
func CounterPayload(total, today int64) source.RawPayload {
	return mustJSON(visits.CounterSnapshot{TotalVisits: total, TodayVisits: today})
}

// TrendsPayload encodes a trends response body.
func TrendsPayload(points ...visits.TrendPoint) source.RawPayload {
	if points == nil {
		points = []visits.TrendPoint{}
	}
	return mustJSON(points)
}

// StatusFailure builds the error HTTPClient returns for a non-2xx fetch.
func StatusFailure(r source.Resource, status int) error {
	return errors.WrapWithCode(
		&source.RequestError{Resource: r, Method: http.MethodGet, Status: status},
		errors.ErrFetch,
		fmt.Sprintf("Failed to fetch %s data", r),
		"",
	)
}

func mustJSON(v interface{}) source.RawPayload {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

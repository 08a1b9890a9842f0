package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Accept      string
	RequestID   string
	Body        string
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.requests = append(ts.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Accept:      r.Header.Get("Accept"),
			RequestID:   r.Header.Get(RequestIDHeader),
			Body:        string(body),
		})
		ts.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) endpoints() Endpoints {
	return Endpoints{
		Counter: ts.URL + "/counter",
		Trends:  ts.URL + "/trends",
		Mock:    ts.URL + "/mock",
	}
}

func (ts *testServer) recorded() []recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]recordedRequest(nil), ts.requests...)
}

func TestHTTPClient_Fetch(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total_visits": 1000, "today_visits": 50}`)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	raw, err := c.Fetch(context.Background(), Counter)

	require.NoError(t, err)
	assert.JSONEq(t, `{"total_visits": 1000, "today_visits": 50}`, string(raw))

	reqs := ts.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/counter", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].Accept)
	assert.Len(t, reqs[0].RequestID, 36, "request ID should be a UUID")
}

func TestHTTPClient_FetchDoesNotValidate(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json at all`)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	raw, err := c.Fetch(context.Background(), Trends)

	require.NoError(t, err)
	assert.Equal(t, "not json at all", string(raw))
}

func TestHTTPClient_FetchNon2xx(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		status   int
	}{
		{"trends 500", Trends, http.StatusInternalServerError},
		{"counter 400", Counter, http.StatusBadRequest},
		{"counter 404", Counter, http.StatusNotFound},
		{"trends 503", Trends, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, `{"message": "boom"}`)
			})
			c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

			raw, err := c.Fetch(context.Background(), tt.resource)

			require.Error(t, err)
			assert.Nil(t, raw)
			assert.True(t, errors.IsCode(err, errors.ErrFetch))
			assert.Equal(t, errors.KindFetch, errors.KindOf(err))

			r, ok := ResourceOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.resource, r)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Contains(t, err.Error(), string(tt.resource))
			assert.Contains(t, err.Error(), "boom")
		})
	}
}

func TestHTTPClient_NoRetry(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	_, err := c.Fetch(context.Background(), Trends)

	require.Error(t, err)
	assert.Len(t, ts.recorded(), 1)
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	endpoints := ts.endpoints()
	ts.Close()

	c := NewHTTPClient(endpoints, WithLogger(logger.Noop()))
	_, err := c.Fetch(context.Background(), Counter)

	require.Error(t, err)
	assert.Equal(t, errors.KindFetch, errors.KindOf(err))
	r, ok := ResourceOf(err)
	require.True(t, ok)
	assert.Equal(t, Counter, r)
	assert.Equal(t, 0, StatusOf(err))
}

func TestHTTPClient_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, Trends)

	require.Error(t, err)
	assert.Equal(t, errors.KindFetch, errors.KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestHTTPClient_UnknownResource(t *testing.T) {
	c := NewHTTPClient(Endpoints{}, WithLogger(logger.Noop()))

	_, err := c.Fetch(context.Background(), Counter)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no endpoint configured")
}

func TestHTTPClient_Increment(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"total_visits": 1001, "today_visits": 51}`)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	err := c.Increment(context.Background(), Counter)

	require.NoError(t, err)
	reqs := ts.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/counter", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.Empty(t, reqs[0].Body)
}

func TestHTTPClient_IncrementFailure(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	err := c.Increment(context.Background(), Counter)

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrWrite))
	assert.Equal(t, errors.KindWrite, errors.KindOf(err))
	assert.Len(t, ts.recorded(), 1, "increment must not be retried")
}

func TestHTTPClient_SeedDay(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"message": "Mock data added successfully", "date": "2025-01-30", "visits": 12, "total_visits": 512}`)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	res, err := c.SeedDay(context.Background(), "2025-01-30", 12)

	require.NoError(t, err)
	assert.Equal(t, int64(512), res.TotalVisits)
	assert.Equal(t, "2025-01-30", res.Date)

	reqs := ts.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/mock", reqs[0].Path)
	assert.JSONEq(t, `{"date": "2025-01-30", "visits": 12}`, reqs[0].Body)
}

func TestHTTPClient_SeedDayFailure(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message": "Missing 'date' or 'visits' in request body"}`)
	})
	c := NewHTTPClient(ts.endpoints(), WithLogger(logger.Noop()))

	_, err := c.SeedDay(context.Background(), "2025-01-30", 0)

	require.Error(t, err)
	assert.Equal(t, errors.KindWrite, errors.KindOf(err))
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestHTTPClient_LogsFailures(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	log := logger.NewBufferLogger()
	c := NewHTTPClient(ts.endpoints(), WithLogger(log))

	_, _ = c.Fetch(context.Background(), Trends)

	assert.True(t, log.Contains("returned 500"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

func TestDefaultEndpoints(t *testing.T) {
	e := DefaultEndpoints()

	assert.Equal(t, []Resource{Counter, Mock, Trends}, e.Resources())
	u, err := e.URL(Trends)
	require.NoError(t, err)
	assert.Contains(t, u, "/production/trends")
}

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/logger"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 256

// RequestIDHeader carries a per-request ID so failures can be matched with
// gateway logs.
const RequestIDHeader = "X-Request-ID"

// Client issues single logical calls against named endpoints. It never
// retries; retry cadence belongs to the poll scheduler.
type Client interface {
	// Fetch GETs the resource and returns the raw body. A non-2xx answer
	// is an ErrFetch error whose cause is a *RequestError naming the resource.
	Fetch(ctx context.Context, r Resource) (RawPayload, error)

	// Increment POSTs an empty JSON request to the resource. Failures are
	// ErrWrite errors.
	Increment(ctx context.Context, r Resource) error
}

// RequestError is the cause attached to every failed call.
type RequestError struct {
	Resource  Resource
	Method    string
	URL       string
	Status    int // 0 when no response was received
	Body      string
	RequestID string
	Err       error // transport error, nil when a response arrived
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Resource, e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Resource, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Resource, e.Status)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// ResourceOf returns the resource a failed call was made against.
func ResourceOf(err error) (Resource, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Resource, true
	}
	return "", false
}

// StatusOf returns the HTTP status of a failed call, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// HTTPClient is the production Client backed by net/http.
type HTTPClient struct {
	endpoints Endpoints
	client    *http.Client
	log       logger.Logger
	userAgent string
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(h *HTTPClient) {
		h.log = logger.OrDefault(l)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(h *HTTPClient) {
		h.userAgent = ua
	}
}

// NewHTTPClient creates a client for the given endpoints. The default
// *http.Client has no timeout; callers bound calls through the context.
func NewHTTPClient(endpoints Endpoints, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		endpoints: endpoints,
		client:    &http.Client{},
		log:       logger.NewEnvLogger("[source]"),
		userAgent: "vdash",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fetch implements Client.
func (h *HTTPClient) Fetch(ctx context.Context, r Resource) (RawPayload, error) {
	body, err := h.do(ctx, http.MethodGet, r, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("Failed to fetch %s data", r),
			"Check the endpoint URL and that the API is reachable")
	}
	return body, nil
}

// Increment implements Client.
func (h *HTTPClient) Increment(ctx context.Context, r Resource) error {
	_, err := h.do(ctx, http.MethodPost, r, http.NoBody)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrWrite,
			fmt.Sprintf("Failed to increment %s", r),
			"")
	}
	return nil
}

// MockResult is the backend's answer to a seed request.
type MockResult struct {
	Message     string `json:"message" yaml:"message"`
	Date        string `json:"date" yaml:"date"`
	Visits      int64  `json:"visits" yaml:"visits"`
	TotalVisits int64  `json:"total_visits" yaml:"total_visits"`
}

// SeedDay adds visits to the given YYYY-MM-DD date through the mock
// endpoint. The backend adds the same amount to the running total.
func (h *HTTPClient) SeedDay(ctx context.Context, date string, visits int64) (*MockResult, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"date":   date,
		"visits": visits,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWrite, "Failed to encode mock request", "")
	}

	body, err := h.do(ctx, http.MethodPost, Mock, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrWrite,
			fmt.Sprintf("Failed to seed %d visits for %s", visits, date),
			"The backend expects a YYYY-MM-DD date and a positive visit count")
	}

	var res MockResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse, "Mock response is not valid JSON", "")
	}
	return &res, nil
}

// do performs one request and returns the body of a 2xx response. Any
// other outcome is returned as a *RequestError.
func (h *HTTPClient) do(ctx context.Context, method string, r Resource, body io.Reader) ([]byte, error) {
	url, err := h.endpoints.URL(r)
	if err != nil {
		return nil, &RequestError{Resource: r, Method: method, Err: err}
	}

	reqID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &RequestError{Resource: r, Method: method, URL: url, RequestID: reqID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, reqID)
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug("%s %s failed after %s (request %s): %v", method, r, time.Since(start), reqID, err)
		return nil, &RequestError{Resource: r, Method: method, URL: url, RequestID: reqID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestError{
			Resource: r, Method: method, URL: url, Status: resp.StatusCode, RequestID: reqID,
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.log.Debug("%s %s returned %d in %s (request %s)", method, r, resp.StatusCode, time.Since(start), reqID)
		return nil, &RequestError{
			Resource:  r,
			Method:    method,
			URL:       url,
			Status:    resp.StatusCode,
			Body:      truncate(string(data), maxErrorBody),
			RequestID: reqID,
		}
	}

	h.log.Debug("%s %s ok in %s (%d bytes)", method, r, time.Since(start), len(data))
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

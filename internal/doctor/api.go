package doctor

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/source"
	"github.com/rileyhilliard/vdash/internal/util"
)

// EndpointCheck fetches one resource and decodes it, so both a dead
// endpoint and a payload of the wrong shape fail.
type EndpointCheck struct {
	Resource source.Resource
	Client   source.Client
	Timeout  time.Duration
}

func (c *EndpointCheck) Name() string     { return "endpoint_" + string(c.Resource) }
func (c *EndpointCheck) Category() string { return CategoryAPI }

func (c *EndpointCheck) Run(ctx context.Context) CheckResult {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.Client.Fetch(ctx, c.Resource)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: %s", c.Resource, describeFetchError(err)),
			Suggestion: fmt.Sprintf("Check endpoints.%s in your config", c.Resource),
		}
	}

	var detail string
	switch c.Resource {
	case source.Counter:
		snap, err := source.DecodeCounter(raw)
		if err != nil {
			return c.parseFailure(err)
		}
		detail = fmt.Sprintf("%d total, %d today", snap.TotalVisits, snap.TodayVisits)
	case source.Trends:
		series, err := source.DecodeTrends(raw)
		if err != nil {
			return c.parseFailure(err)
		}
		detail = fmt.Sprintf("%d day%s", series.Len(), util.Pluralize(series.Len(), "", "s"))
	default:
		detail = fmt.Sprintf("%d bytes", len(raw))
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s in %s", c.Resource, detail, elapsed),
	}
}

func (c *EndpointCheck) parseFailure(err error) CheckResult {
	return CheckResult{
		Name:       c.Name(),
		Status:     StatusFail,
		Message:    fmt.Sprintf("%s: %s", c.Resource, util.FirstLine(err)),
		Suggestion: "The endpoint answered but not with the visit counter API's shape",
	}
}

func (c *EndpointCheck) Fix() error { return nil }

// MockEndpointCheck only checks that the mock endpoint is configured.
// Calling it would add visits.
type MockEndpointCheck struct {
	URL string
}

func (c *MockEndpointCheck) Name() string     { return "endpoint_mock" }
func (c *MockEndpointCheck) Category() string { return CategoryAPI }

func (c *MockEndpointCheck) Run(ctx context.Context) CheckResult {
	u, err := url.Parse(c.URL)
	if c.URL == "" || err != nil || u.Host == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "mock: not configured, 'vdash mock' won't work",
			Suggestion: "Set endpoints.mock in your config",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("mock: %s (not called)", u.Host),
	}
}

func (c *MockEndpointCheck) Fix() error { return nil }

// NewAPIChecks creates a check per polled resource plus the mock endpoint.
func NewAPIChecks(client source.Client, mockURL string, timeout time.Duration) []Check {
	return []Check{
		&EndpointCheck{Resource: source.Counter, Client: client, Timeout: timeout},
		&EndpointCheck{Resource: source.Trends, Client: client, Timeout: timeout},
		&MockEndpointCheck{URL: mockURL},
	}
}

func describeFetchError(err error) string {
	if status := source.StatusOf(err); status != 0 {
		return fmt.Sprintf("HTTP %d", status)
	}
	var reqErr *source.RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		return reqErr.Err.Error()
	}
	return util.FirstLine(err)
}


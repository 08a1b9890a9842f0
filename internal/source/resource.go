package source

import (
	"fmt"
	"sort"
)

// Resource names one independently polled endpoint.
type Resource string

const (
	// Counter returns {total_visits, today_visits} on GET and increments on POST.
	Counter Resource = "counter"
	// Trends returns the per-day visit history on GET.
	Trends Resource = "trends"
	// Mock seeds visits for a given date on POST.
	Mock Resource = "mock"
)

// Base URL of the production API Gateway stage.
const defaultBaseURL = "https://dyq8814cgc.execute-api.us-east-1.amazonaws.com/production"

// Endpoints maps each resource to its fixed URL.
type Endpoints map[Resource]string

// DefaultEndpoints returns the compiled-in endpoint URLs.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Counter: defaultBaseURL + "/counter",
		Trends:  defaultBaseURL + "/trends",
		Mock:    defaultBaseURL + "/mock",
	}
}

// URL returns the URL configured for r.
func (e Endpoints) URL(r Resource) (string, error) {
	u, ok := e[r]
	if !ok || u == "" {
		return "", fmt.Errorf("no endpoint configured for resource %q", r)
	}
	return u, nil
}

// Resources returns the configured resource names in a stable order.
func (e Endpoints) Resources() []Resource {
	out := make([]Resource, 0, len(e))
	for r := range e {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RawPayload is an undecoded response body.
type RawPayload []byte

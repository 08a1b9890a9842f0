package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rileyhilliard/vdash/internal/errors"
	"github.com/rileyhilliard/vdash/internal/visits"
)

type counterWire struct {
	TotalVisits *json.Number `json:"total_visits"`
	TodayVisits *json.Number `json:"today_visits"`
}

type trendPointWire struct {
	PageID *string      `json:"pageId"`
	Visits *json.Number `json:"visits"`
}

// DecodeCounter turns a counter payload into a CounterSnapshot. Both
// fields must be present, integral, and non-negative.
func DecodeCounter(raw RawPayload) (*visits.CounterSnapshot, error) {
	var w counterWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return nil, parseError(Counter, err)
	}

	total, err := count("total_visits", w.TotalVisits)
	if err != nil {
		return nil, parseError(Counter, err)
	}
	today, err := count("today_visits", w.TodayVisits)
	if err != nil {
		return nil, parseError(Counter, err)
	}

	return &visits.CounterSnapshot{TotalVisits: total, TodayVisits: today}, nil
}

// DecodeTrends turns a trends payload into a TrendSeries, keeping the
// server's order. Any malformed element fails the whole payload. The
// pageId format is not checked here; chart projection tolerates bad days.
func DecodeTrends(raw RawPayload) (visits.TrendSeries, error) {
	var w []trendPointWire
	if err := strictUnmarshal(raw, &w); err != nil {
		return nil, parseError(Trends, err)
	}
	if w == nil {
		return nil, parseError(Trends, fmt.Errorf("expected an array, got null"))
	}

	out := make(visits.TrendSeries, 0, len(w))
	for i, p := range w {
		if p.PageID == nil {
			return nil, parseError(Trends, fmt.Errorf("element %d: missing pageId", i))
		}
		v, err := count("visits", p.Visits)
		if err != nil {
			return nil, parseError(Trends, fmt.Errorf("element %d (%s): %w", i, *p.PageID, err))
		}
		out = append(out, visits.TrendPoint{PageID: *p.PageID, Visits: v})
	}
	return out, nil
}

func strictUnmarshal(raw []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// count accepts integers and integral floats such as 5.0, which is how
// the backend serializes its stored decimals.
func count(field string, n *json.Number) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("missing %s", field)
	}
	if i, err := n.Int64(); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("%s is negative (%d)", field, i)
		}
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%s is not a number (%s)", field, n.String())
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s is not a whole number (%s)", field, n.String())
	}
	if f < 0 {
		return 0, fmt.Errorf("%s is negative (%s)", field, n.String())
	}
	if f >= math.MaxInt64 {
		return 0, fmt.Errorf("%s is out of range (%s)", field, n.String())
	}
	return int64(f), nil
}

func parseError(r Resource, err error) error {
	return errors.WrapWithCode(err, errors.ErrParse,
		fmt.Sprintf("Unexpected %s payload", r),
		"The API answered but the response did not match the expected shape")
}

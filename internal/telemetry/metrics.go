// Package telemetry records poll activity as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rileyhilliard/vdash/internal/errors"
)

const namespace = "vdash"

// ResultOK is the result label of a successful call. Failures use the
// error kind name.
const ResultOK = "ok"

// Metrics holds the collectors for one process. A nil *Metrics records
// nothing, so components can take one unconditionally.
type Metrics struct {
	FetchTotal     *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	SkippedTicks   *prometheus.CounterVec
	SharedFetches  *prometheus.CounterVec
	LastSuccess    *prometheus.GaugeVec
	IncrementTotal *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Total number of fetch attempts by resource and result",
			},
			[]string{"resource", "result"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of fetch attempts in seconds, including decode",
				Buckets:   []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"resource"},
		),
		SkippedTicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "skipped_ticks_total",
				Help:      "Poll ticks skipped because a fetch was still in flight",
			},
			[]string{"resource"},
		),
		SharedFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_shared_total",
				Help:      "Fetch results handed to a caller that joined a request in flight",
			},
			[]string{"resource"},
		),
		LastSuccess: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful fetch",
			},
			[]string{"resource"},
		),
		IncrementTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "increment_total",
				Help:      "Total number of counter increments by result",
			},
			[]string{"result"},
		),
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Notifications raised by severity",
			},
			[]string{"severity"},
		),
	}
}

// ResultLabel maps an error onto the result label: "ok" or the failure kind.
func ResultLabel(err error) string {
	if err == nil {
		return ResultOK
	}
	return errors.KindOf(err).String()
}

// RecordFetch records one settled fetch.
func (m *Metrics) RecordFetch(resource string, err error, duration time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(resource, ResultLabel(err)).Inc()
	m.FetchDuration.WithLabelValues(resource).Observe(duration.Seconds())
	if err == nil {
		m.LastSuccess.WithLabelValues(resource).Set(float64(at.UnixNano()) / 1e9)
	}
}

// RecordSkip records a tick that found a fetch already running.
func (m *Metrics) RecordSkip(resource string) {
	if m == nil {
		return
	}
	m.SkippedTicks.WithLabelValues(resource).Inc()
}

// RecordShared records a fetch result shared with a joining caller.
func (m *Metrics) RecordShared(resource string) {
	if m == nil {
		return
	}
	m.SharedFetches.WithLabelValues(resource).Inc()
}

// RecordIncrement records the outcome of an increment.
func (m *Metrics) RecordIncrement(err error) {
	if m == nil {
		return
	}
	m.IncrementTotal.WithLabelValues(ResultLabel(err)).Inc()
}

// RecordNotification records a raised notification.
func (m *Metrics) RecordNotification(severity string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(severity).Inc()
}

package poller

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the polling service. A nil
// *Metrics disables instrumentation, so every method is nil-safe.
type Metrics struct {
	Registry     *prometheus.Registry
	PollsTotal   *prometheus.CounterVec
	AuthAttempts *prometheus.CounterVec
	RatePeriods  prometheus.Gauge
	PollDuration prometheus.Histogram
	UsageFetches *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	polls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powershop_polls_total",
			Help: "Total poll cycles by outcome.",
		},
		[]string{"outcome"},
	)
	authAttempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powershop_auth_attempts_total",
			Help: "Total portal login attempts by outcome.",
		},
		[]string{"outcome"},
	)
	ratePeriods := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "powershop_rate_periods",
			Help: "Number of rate periods found in the last successful poll.",
		},
	)
	pollDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "powershop_poll_duration_seconds",
			Help:    "Wall-clock duration of a full poll cycle.",
			Buckets: prometheus.DefBuckets,
		},
	)
	usageFetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powershop_usage_fetches_total",
			Help: "Total usage CSV downloads by availability.",
		},
		[]string{"available"},
	)

	registry.MustRegister(polls, authAttempts, ratePeriods, pollDuration, usageFetches)

	return &Metrics{
		Registry:     registry,
		PollsTotal:   polls,
		AuthAttempts: authAttempts,
		RatePeriods:  ratePeriods,
		PollDuration: pollDuration,
		UsageFetches: usageFetches,
	}
}

// IncPoll increments the poll counter for an outcome.
func (m *Metrics) IncPoll(outcome string) {
	if m == nil {
		return
	}
	m.PollsTotal.WithLabelValues(outcome).Inc()
}

// IncAuth increments the login attempt counter for an outcome.
func (m *Metrics) IncAuth(outcome string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(outcome).Inc()
}

// SetRatePeriods records how many periods the last poll extracted.
func (m *Metrics) SetRatePeriods(count int) {
	if m == nil {
		return
	}
	m.RatePeriods.Set(float64(count))
}

// ObservePoll records a poll cycle duration.
func (m *Metrics) ObservePoll(d time.Duration) {
	if m == nil {
		return
	}
	m.PollDuration.Observe(d.Seconds())
}

// IncUsageFetch counts a usage download by whether data came back.
func (m *Metrics) IncUsageFetch(available bool) {
	if m == nil {
		return
	}
	label := "false"
	if available {
		label = "true"
	}
	m.UsageFetches.WithLabelValues(label).Inc()
}

// Package metrics exposes Prometheus collectors for quote sessions and the
// HTTP front-end.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-lawnquote/pkg/quote"
)

const namespace = "lawnquote"

// Metrics groups the lawnquote collectors. A nil *Metrics is a valid no-op.
type Metrics struct {
	photos          *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

// MustNewMetrics registers the collectors with reg (the default registerer
// when nil). Collectors already present in reg are reused, so building
// several servers against one registry is safe. Other registration errors
// panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		photos: mustRegister(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "photos_total",
				Help:      "Photos offered to quote sessions, by filename check result.",
			},
			[]string{"result"},
		)),
		submissions: mustRegister(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Submit attempts by outcome: attempted, invalid or completed.",
			},
			[]string{"outcome"},
		)),
		transitions: mustRegister(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_transitions_total",
				Help:      "Submission state machine transitions.",
			},
			[]string{"from", "to"},
		)),
		sessionsActive: mustRegister(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sessions_active",
				Help:      "Quote sessions currently held in memory.",
			},
		)),
		requestDuration: mustRegister(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route and status code.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		)),
	}
	return m
}

func mustRegister[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

// ObserveSelection counts accepted and rejected photos of one selection.
func (m *Metrics) ObserveSelection(selection quote.Selection) {
	if m == nil {
		return
	}
	m.photos.WithLabelValues("accepted").Add(float64(len(selection.Accepted)))
	m.photos.WithLabelValues("rejected").Add(float64(len(selection.Rejected)))
}

// ObserveTransition records a state change and derives the submission
// outcome from it.
func (m *Metrics) ObserveTransition(from, to quote.State) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
	switch {
	case from == quote.StateSubmitting && to == quote.StateIdle:
		m.submissions.WithLabelValues("invalid").Inc()
	case from == quote.StateSubmitting && to == quote.StateSubmitted:
		m.submissions.WithLabelValues("completed").Inc()
	case from == quote.StateIdle && to == quote.StateSubmitting:
		m.submissions.WithLabelValues("attempted").Inc()
	}
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

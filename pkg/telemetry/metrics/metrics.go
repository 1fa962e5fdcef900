package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks the pipeline's operational counters.
//
// Metrics:
//   - vesta_files_detected_total: creation events that passed dedup
//   - vesta_files_routed_total: files routed to a queue or schedule, by action
//   - vesta_route_failures_total: routing attempts that dropped the file
//   - vesta_classifier_calls_total: collaborator calls by kind and outcome
//   - vesta_classifier_call_duration_seconds: collaborator call latency
//   - vesta_deletions_total: scheduled deletions by outcome
type Metrics struct {
	filesDetected      prometheus.Counter
	filesRouted        *prometheus.CounterVec
	routeFailures      prometheus.Counter
	classifierCalls    *prometheus.CounterVec
	classifierDuration *prometheus.HistogramVec
	deletions          *prometheus.CounterVec
}

// New creates and registers the pipeline metrics with registry.
func New(namespace string, registry *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "vesta"
	}

	m := &Metrics{
		filesDetected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_detected_total",
			Help:      "Total new-file events accepted for processing",
		}),
		filesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_routed_total",
			Help:      "Total files routed to a queue or schedule",
		}, []string{"action"}),
		routeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_failures_total",
			Help:      "Total routing attempts that dropped the file",
		}),
		classifierCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_calls_total",
			Help:      "Total AI collaborator calls",
		}, []string{"kind", "outcome"}),
		classifierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_call_duration_seconds",
			Help:      "Duration of AI collaborator calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~200s
		}, []string{"kind"}),
		deletions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_total",
			Help:      "Total scheduled deletion attempts",
		}, []string{"outcome"}),
	}

	if registry != nil {
		registry.MustRegister(
			m.filesDetected,
			m.filesRouted,
			m.routeFailures,
			m.classifierCalls,
			m.classifierDuration,
			m.deletions,
		)
	}
	return m
}

// All methods are nil-safe so components can run unmetered in tests.

// FileDetected records one accepted creation event.
func (m *Metrics) FileDetected() {
	if m == nil {
		return
	}
	m.filesDetected.Inc()
}

// FileRouted records a successful routing decision.
func (m *Metrics) FileRouted(action string) {
	if m == nil {
		return
	}
	m.filesRouted.WithLabelValues(action).Inc()
}

// RouteFailed records a routing attempt that dropped the file.
func (m *Metrics) RouteFailed() {
	if m == nil {
		return
	}
	m.routeFailures.Inc()
}

// ObserveClassifierCall records one collaborator call.
func (m *Metrics) ObserveClassifierCall(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.classifierCalls.WithLabelValues(kind, outcome).Inc()
	m.classifierDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// DeletionAttempt records one scheduled deletion attempt.
func (m *Metrics) DeletionAttempt(outcome string) {
	if m == nil {
		return
	}
	m.deletions.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apperrors "pustakbhandar/internal/errors"
)

// BackendMetrics records every call the storefront makes to its backend provider.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	calls    *prometheus.CounterVec
}

// NewBackendMetrics registers the backend metrics on the provided registerer.
// A nil registerer yields a recorder that drops everything.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "backend_call_duration_seconds",
		Help:      "Duration of backend provider calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "backend_calls_total",
		Help:      "Backend provider calls by outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(duration, calls)
	return &BackendMetrics{duration: duration, calls: calls}
}

// Observe implements backend.Recorder.
func (m *BackendMetrics) Observe(op string, elapsed time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op = normalizeLabel(op)
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
	m.calls.WithLabelValues(op, apperrors.Outcome(err)).Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}

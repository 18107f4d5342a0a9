package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MutationMetrics records outcomes of optimistic mutations.
type MutationMetrics struct {
	duration   *prometheus.HistogramVec
	committed  *prometheus.CounterVec
	rolledBack *prometheus.CounterVec
	bulkReload *prometheus.CounterVec
}

// NewMutationMetrics registers the mutation metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewMutationMetrics(reg prometheus.Registerer) *MutationMetrics {
	if reg == nil {
		return &MutationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mutation_duration_seconds",
		Help:    "Duration of optimistic mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutation_committed",
		Help: "Optimistic mutations whose remote write succeeded.",
	}, []string{"operation"})
	rolledBack := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutation_rolled_back",
		Help: "Optimistic mutations reverted after a failed remote write.",
	}, []string{"operation"})
	bulkReload := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mutation_bulk_reload",
		Help: "Bulk mutations that triggered a full reload after partial failure.",
	}, []string{"operation"})
	reg.MustRegister(duration, committed, rolledBack, bulkReload)
	return &MutationMetrics{
		duration:   duration,
		committed:  committed,
		rolledBack: rolledBack,
		bulkReload: bulkReload,
	}
}

// ObserveDuration records the wall time for the named operation.
func (m *MutationMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncCommitted increments the commit counter for the named operation.
func (m *MutationMetrics) IncCommitted(operation string) {
	if m == nil || m.committed == nil {
		return
	}
	m.committed.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncRolledBack increments the rollback counter for the named operation.
func (m *MutationMetrics) IncRolledBack(operation string) {
	if m == nil || m.rolledBack == nil {
		return
	}
	m.rolledBack.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncBulkReload increments the reload counter for the named operation.
func (m *MutationMetrics) IncBulkReload(operation string) {
	if m == nil || m.bulkReload == nil {
		return
	}
	m.bulkReload.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}

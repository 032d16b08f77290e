package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Event outcomes.
const (
	OutcomePosted    = "posted"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
	OutcomeError     = "error"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// LedgerMetrics records posting and read-side metrics. A nil *LedgerMetrics
// is valid and records nothing.
type LedgerMetrics struct {
	events          *prometheus.CounterVec
	postingDuration *prometheus.HistogramVec
	conflicts       *prometheus.CounterVec
	cache           *prometheus.CounterVec
	rebuilds        *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_events_total",
		Help: "Business events handled by RecordEvent, by type and outcome.",
	}, []string{"event_type", "outcome"})
	postingDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_posting_duration_seconds",
		Help:    "Duration of RecordEvent calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_concurrency_conflicts_total",
		Help: "Concurrency conflicts detected, by operation.",
	}, []string{"operation"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_balance_cache_lookups_total",
		Help: "Balance cache lookups by result.",
	}, []string{"result"})
	rebuilds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_summary_rebuilds_total",
		Help: "Summary rebuilds by granularity and outcome.",
	}, []string{"granularity", "outcome"})
	reg.MustRegister(events, postingDuration, conflicts, cache, rebuilds)
	return &LedgerMetrics{
		events:          events,
		postingDuration: postingDuration,
		conflicts:       conflicts,
		cache:           cache,
		rebuilds:        rebuilds,
	}
}

// ObserveEvent counts one RecordEvent outcome and records its duration.
func (m *LedgerMetrics) ObserveEvent(eventType, outcome string, duration time.Duration) {
	if m == nil || m.events == nil {
		return
	}
	eventType = normalizeLabel(eventType)
	m.events.WithLabelValues(eventType, normalizeLabel(outcome)).Inc()
	m.postingDuration.WithLabelValues(eventType).Observe(duration.Seconds())
}

// IncConflict counts a concurrency conflict for the named operation.
func (m *LedgerMetrics) IncConflict(operation string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCache counts a balance cache lookup.
func (m *LedgerMetrics) IncCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncRebuild counts one summary rebuild.
func (m *LedgerMetrics) IncRebuild(granularity, outcome string) {
	if m == nil || m.rebuilds == nil {
		return
	}
	m.rebuilds.WithLabelValues(normalizeLabel(granularity), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module. All methods are
// nil-safe so the service can run without metrics wired.
type Metrics struct {
	MintsTotal        prometheus.Counter
	TransfersTotal    prometheus.Counter
	RoleChangesTotal  prometheus.Counter
	UnauthorizedTotal prometheus.Counter
	CacheHitsTotal    prometheus.Counter
	CacheMissesTotal  prometheus.Counter
	LookupDuration    prometheus.Histogram
}

// New creates a new Metrics instance with all registry module metrics registered.
func New() *Metrics {
	return &Metrics{
		MintsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_mints_total",
			Help: "Total number of vehicle registration tokens minted",
		}),
		TransfersTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_transfers_total",
			Help: "Total number of token ownership transfers",
		}),
		RoleChangesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_role_changes_total",
			Help: "Total number of role grants and revocations",
		}),
		UnauthorizedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_unauthorized_attempts_total",
			Help: "Total number of operations rejected for missing authority",
		}),
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_record_cache_hits_total",
			Help: "Total number of vehicle record cache hits",
		}),
		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cartegrise_record_cache_misses_total",
			Help: "Total number of vehicle record cache misses",
		}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cartegrise_record_lookup_duration_seconds",
			Help:    "Duration of vehicle record lookups",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementMints records a successful mint.
func (m *Metrics) IncrementMints() {
	if m != nil {
		m.MintsTotal.Inc()
	}
}

// IncrementTransfers records a successful ownership transfer.
func (m *Metrics) IncrementTransfers() {
	if m != nil {
		m.TransfersTotal.Inc()
	}
}

// IncrementRoleChanges records a role grant or revocation.
func (m *Metrics) IncrementRoleChanges() {
	if m != nil {
		m.RoleChangesTotal.Inc()
	}
}

// IncrementUnauthorized records an operation rejected for missing authority.
func (m *Metrics) IncrementUnauthorized() {
	if m != nil {
		m.UnauthorizedTotal.Inc()
	}
}

// RecordCacheResult records a cache hit or miss on the record lookup path.
func (m *Metrics) RecordCacheResult(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
	} else {
		m.CacheMissesTotal.Inc()
	}
}

// ObserveLookup records the duration of a record lookup.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLookup(start time.Time) {
	if m != nil {
		m.LookupDuration.Observe(time.Since(start).Seconds())
	}
}

// Package metrics exposes Prometheus instruments for ledger activity.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Ledger records economy operations and the coins they move.
type Ledger struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	coins      *prometheus.CounterVec
	throttles  *prometheus.CounterVec
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *Ledger
)

// LedgerMetrics returns the lazily-initialised ledger metrics registered with
// the default Prometheus registry.
func LedgerMetrics() *Ledger {
	ledgerOnce.Do(func() {
		ledgerRegistry = NewLedger()
		prometheus.MustRegister(ledgerRegistry.Collectors()...)
	})
	return ledgerRegistry
}

// NewLedger builds unregistered ledger metrics.
func NewLedger() *Ledger {
	return &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Total economy operations segmented by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency distribution for economy operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		coins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "coins_total",
			Help:      "Coins moved by committed operations segmented by ledger reason.",
		}, []string{"reason"}),
		throttles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "throttles_total",
			Help:      "Requests rejected by the per-user rate limiter.",
		}, []string{"route"}),
	}
}

// Collectors returns the instruments for registration.
func (m *Ledger) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.operations, m.latency, m.coins, m.throttles}
}

// Observe records the outcome of one operation. outcome should be a stable
// string such as "ok", "rejected" or "error".
func (m *Ledger) Observe(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(duration.Seconds())
}

// AddCoins records coins moved for a ledger reason.
func (m *Ledger) AddCoins(reason string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.coins.WithLabelValues(reason).Add(float64(amount))
}

// RecordThrottle counts a rate-limited request.
func (m *Ledger) RecordThrottle(route string) {
	if m == nil {
		return
	}
	m.throttles.WithLabelValues(route).Inc()
}

// Package metrics exposes Prometheus instrumentation for the solver.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "best_combination"

// Solve outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeCached   = "cached"
	OutcomeTooLarge = "too_large"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Metrics groups the collectors recorded by the solver. A nil *Metrics
// records nothing.
type Metrics struct {
	solveTotal    *prometheus.CounterVec
	solveDuration prometheus.Histogram
	tableCells    prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		solveTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solve_total",
				Help:      "Count of best-combination requests by outcome.",
			},
			[]string{"outcome"},
		),
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_duration_seconds",
				Help:      "Time spent building and walking the combination table.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
		),
		tableCells: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "table_cells",
				Help:      "Number of cells allocated per combination table.",
				Buckets:   prometheus.ExponentialBuckets(16, 8, 8),
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Count of result cache lookups by result.",
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.solveTotal, m.solveDuration, m.tableCells, m.cacheLookups} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}
	return m, nil
}

// ObserveSolve records one finished request.
func (m *Metrics) ObserveSolve(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.solveTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.solveDuration.Observe(elapsed.Seconds())
	}
}

// ObserveTable records the size of an allocated table.
func (m *Metrics) ObserveTable(cells int) {
	if m == nil {
		return
	}
	m.tableCells.Observe(float64(cells))
}

// CacheHit records a result cache hit.
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a result cache miss.
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

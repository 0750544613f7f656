// Package metrics exports store activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fnlux"

// Dispatch outcomes.
const (
	OutcomeApplied   = "applied"
	OutcomeRejected  = "rejected"
	OutcomeCancelled = "cancelled"
)

// Source reports the store gauges.
type Source interface {
	Depth() int
	Pending() int
}

// Metrics records store activity. A nil *Metrics ignores every call.
type Metrics struct {
	changes    prometheus.Counter
	applies    *prometheus.CounterVec
	dispatches *prometheus.CounterVec
}

// New registers the store metrics on reg. Gauges are read from src at
// scrape time.
func New(reg prometheus.Registerer, src Source) *Metrics {
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_depth",
		Help:      "Number of history entries, including the initial state.",
	}, func() float64 { return float64(src.Depth()) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pending_dispatches",
		Help:      "Async dispatches that are neither settled nor cancelled.",
	}, func() float64 { return float64(src.Pending()) })

	return &Metrics{
		changes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_changes_total",
			Help:      "State changes delivered to the change callback.",
		}),
		applies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "applies_total",
			Help:      "Synchronous applies by result.",
		}, []string{"result"}),
		dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Settled async dispatches by outcome.",
		}, []string{"outcome"}),
	}
}

// StateChanged counts one change callback.
func (m *Metrics) StateChanged() {
	if m == nil {
		return
	}
	m.changes.Inc()
}

// Applied counts one synchronous apply.
func (m *Metrics) Applied(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.applies.WithLabelValues(result).Inc()
}

// Settled counts one async dispatch outcome.
func (m *Metrics) Settled(outcome string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(outcome).Inc()
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Package monitoring exposes Prometheus metrics for searches and the lead store.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smecrm"

// Search outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
	OutcomeStale  = "stale"
)

// Metrics holds the counters and histograms recorded by the search flow and
// the HTTP API. A nil *Metrics is valid and records nothing.
type Metrics struct {
	searchesTotal  *prometheus.CounterVec
	searchLatency  prometheus.Histogram
	candidates     prometheus.Histogram
	providerErrors *prometheus.CounterVec
	leadMutations  *prometheus.CounterVec
	promotions     *prometheus.CounterVec
}

// NewMetrics creates the metric set and registers it with reg, or with the
// default registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "total",
			Help:      "Searches dispatched, by outcome",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "latency_seconds",
			Help:      "End-to-end latency of a search including geocoding",
			Buckets:   prometheus.DefBuckets,
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "candidates",
			Help:      "Candidates returned per successful search",
			Buckets:   []float64{0, 1, 5, 10, 15, 20},
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "errors_total",
			Help:      "Places provider failures, by operation",
		}, []string{"op"}),
		leadMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "mutations_total",
			Help:      "Lead store mutations, by operation and result",
		}, []string{"op", "result"}),
		promotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "promotions_total",
			Help:      "Candidate promotions, by match result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchesTotal, m.searchLatency, m.candidates, m.providerErrors, m.leadMutations, m.promotions)
	return m
}

// ObserveSearch records one completed search.
func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration, n int) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(elapsed.Seconds())
	if outcome == OutcomeOK || outcome == OutcomeEmpty {
		m.candidates.Observe(float64(n))
	}
}

// ObserveStale records a search result discarded because a newer one was dispatched.
func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(OutcomeStale).Inc()
}

// ObserveProviderError records a failed provider call.
func (m *Metrics) ObserveProviderError(op string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(op).Inc()
}

// ObserveLeadMutation records a create, update, status or delete call.
func (m *Metrics) ObserveLeadMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.leadMutations.WithLabelValues(op, result).Inc()
}

// ObservePromotion records a promotion attempt; result is "created",
// "duplicate" or "invalid".
func (m *Metrics) ObservePromotion(result string) {
	if m == nil {
		return
	}
	m.promotions.WithLabelValues(result).Inc()
}

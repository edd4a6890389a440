package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sells-group/sme-crm/internal/lead"
)

// StatusCounter is the slice of the lead store the collector reads.
type StatusCounter interface {
	CountByStatus(status lead.Status) int
	Len() int
}

// LeadCollector reads the lead counts from the store at scrape time.
type LeadCollector struct {
	store    StatusCounter
	total    *prometheus.Desc
	byStatus *prometheus.Desc
}

// NewLeadCollector creates a collector over store. Register it with a
// prometheus.Registerer to expose it.
func NewLeadCollector(store StatusCounter) *LeadCollector {
	return &LeadCollector{
		store: store,
		total: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "leads", "total"),
			"Leads currently in the store",
			nil, nil,
		),
		byStatus: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "leads", "by_status"),
			"Leads currently in the store, by pipeline status",
			[]string{"status"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *LeadCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.byStatus
}

// Collect implements prometheus.Collector.
func (c *LeadCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(c.store.Len()))
	for _, s := range lead.Statuses() {
		ch <- prometheus.MustNewConstMetric(c.byStatus, prometheus.GaugeValue, float64(c.store.CountByStatus(s)), string(s))
	}
}

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsCollector struct {
	invoicesCreated      *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	statsComputeDuration prometheus.Histogram
	statsCacheHits       prometheus.Counter
	statsCacheMisses     prometheus.Counter
	blobUploads          *prometheus.CounterVec
	eventsPublished      *prometheus.CounterVec
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		invoicesCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billfold_invoices_created_total",
				Help: "Total number of invoices created",
			},
			[]string{"status"},
		),
		statusTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billfold_invoice_status_transitions_total",
				Help: "Total number of invoice status transitions",
			},
			[]string{"status"},
		),
		statsComputeDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "billfold_stats_compute_duration_seconds",
				Help:    "Duration of invoice stats computation including the store fetch",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		statsCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "billfold_stats_cache_hits_total",
				Help: "Total number of stats served from cache",
			},
		),
		statsCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "billfold_stats_cache_misses_total",
				Help: "Total number of stats computed on a cache miss",
			},
		),
		blobUploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billfold_blob_uploads_total",
				Help: "Total number of blob uploads",
			},
			[]string{"kind"},
		),
		eventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billfold_events_published_total",
				Help: "Total number of lifecycle events published",
			},
			[]string{"type"},
		),
	}
}

func (m *MetricsCollector) IncrementInvoicesCreated(status string) {
	m.invoicesCreated.WithLabelValues(status).Inc()
}

func (m *MetricsCollector) IncrementStatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

func (m *MetricsCollector) ObserveStatsCompute(seconds float64) {
	m.statsComputeDuration.Observe(seconds)
}

func (m *MetricsCollector) IncrementStatsCacheHit() {
	m.statsCacheHits.Inc()
}

func (m *MetricsCollector) IncrementStatsCacheMiss() {
	m.statsCacheMisses.Inc()
}

func (m *MetricsCollector) IncrementBlobUpload(kind string) {
	m.blobUploads.WithLabelValues(kind).Inc()
}

func (m *MetricsCollector) IncrementEventPublished(eventType string) {
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

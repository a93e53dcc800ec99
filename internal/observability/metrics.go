package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	// PipelineRuns counts aggregation runs by outcome (success, invalid_input,
	// upstream_error, empty, canceled).
	PipelineRuns *prometheus.CounterVec

	// PipelineDuration observes end-to-end aggregation run latency in seconds.
	PipelineDuration prometheus.Histogram

	// WorksFetched counts work records fetched from OpenAlex.
	WorksFetched prometheus.Counter

	// EnrichmentRequests counts enrichment lookups by provider.
	EnrichmentRequests *prometheus.CounterVec

	// EnrichmentFailures counts enrichment lookups that returned no usable
	// payload, by provider.
	EnrichmentFailures *prometheus.CounterVec

	// CacheHits counts enrichment cache hits.
	CacheHits prometheus.Counter

	// CacheMisses counts enrichment cache misses.
	CacheMisses prometheus.Counter

	// TableRows observes row counts of assembled tables.
	TableRows prometheus.Histogram
}

// NewMetrics creates and registers the service metrics under the given
// namespace using the default Prometheus registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates and registers the service metrics on the
// given registerer.
func NewMetricsWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PipelineRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total number of aggregation runs by outcome",
		}, []string{"outcome"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end aggregation run duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		WorksFetched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "works_fetched_total",
			Help:      "Total number of work records fetched from OpenAlex",
		}),
		EnrichmentRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_requests_total",
			Help:      "Total number of enrichment lookups by provider",
		}, []string{"provider"}),
		EnrichmentFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_failures_total",
			Help:      "Total number of enrichment lookups with no usable payload by provider",
		}, []string{"provider"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of enrichment cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of enrichment cache misses",
		}),
		TableRows: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Row counts of assembled tables",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

// RecordPipelineRun records a completed aggregation run.
func (m *Metrics) RecordPipelineRun(outcome string, seconds float64) {
	m.PipelineRuns.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(seconds)
}

// RecordWorksFetched records works fetched from OpenAlex.
func (m *Metrics) RecordWorksFetched(n int) {
	m.WorksFetched.Add(float64(n))
}

// RecordEnrichment records an enrichment lookup for the given provider.
func (m *Metrics) RecordEnrichment(provider string, failed bool) {
	m.EnrichmentRequests.WithLabelValues(provider).Inc()
	if failed {
		m.EnrichmentFailures.WithLabelValues(provider).Inc()
	}
}

// RecordTableRows records the row count of an assembled table.
func (m *Metrics) RecordTableRows(rows int) {
	m.TableRows.Observe(float64(rows))
}

// CacheHit increments the cache hit counter.
func (m *Metrics) CacheHit() {
	m.CacheHits.Inc()
}

// CacheMiss increments the cache miss counter.
func (m *Metrics) CacheMiss() {
	m.CacheMisses.Inc()
}

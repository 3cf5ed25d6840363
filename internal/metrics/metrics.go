package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vrmt_search"

// Metrics holds the Prometheus collectors for search and ingestion.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	searchRequests *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchMatches  prometheus.Histogram
	queryRewrites  prometheus.Counter

	ingestRuns     *prometheus.CounterVec
	ingestChunks   prometheus.Gauge
	ingestDuration prometheus.Histogram
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search latency including embedding and vector query.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		searchMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Matches returned per successful search.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 10, 20},
		}),
		queryRewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_rewrites_total",
			Help:      "Vague queries rewritten into a targeted question.",
		}),
		ingestRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_runs_total",
			Help:      "Ingestion runs by final status.",
		}, []string{"status"}),
		ingestChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingest_chunks",
			Help:      "Chunks uploaded by the last successful ingestion.",
		}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      "Duration of ingestion runs.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searchRequests,
		m.searchDuration,
		m.searchMatches,
		m.queryRewrites,
		m.ingestRuns,
		m.ingestChunks,
		m.ingestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one search request.
// matches is only recorded for successful requests.
func (m *Metrics) ObserveSearch(mode, outcome string, matches int, d time.Duration) {
	if m == nil {
		return
	}
	m.searchRequests.WithLabelValues(mode, outcome).Inc()
	m.searchDuration.WithLabelValues(mode).Observe(d.Seconds())
	if outcome == "ok" {
		m.searchMatches.Observe(float64(matches))
	}
}

// IncQueryRewrite counts a rewritten query.
func (m *Metrics) IncQueryRewrite() {
	if m == nil {
		return
	}
	m.queryRewrites.Inc()
}

// ObserveIngest records the outcome of an ingestion run.
func (m *Metrics) ObserveIngest(status string, uploaded int, d time.Duration) {
	if m == nil {
		return
	}
	m.ingestRuns.WithLabelValues(status).Inc()
	m.ingestDuration.Observe(d.Seconds())
	if status == "succeeded" {
		m.ingestChunks.Set(float64(uploaded))
	}
}

// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Source adapter metrics
	SourceRequests *prometheus.CounterVec
	SourceLatency  *prometheus.HistogramVec

	// Batch enrichment metrics
	BatchRuns     *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	BatchEntities *prometheus.CounterVec

	// Deep-dive analysis metrics
	AnalysisRuns     *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram

	// Cache metrics
	CacheOps *prometheus.CounterVec

	// RPC metrics
	RPCCallLatency *prometheus.HistogramVec

	// Snapshot health metrics
	SnapshotTokens prometheus.Gauge
	LastRefresh    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_token_scanner"
	}

	return &Metrics{
		SourceRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sources",
			Name:      "requests_total",
			Help:      "Total number of upstream source requests by outcome",
		}, []string{"source", "outcome"}),
		SourceLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sources",
			Name:      "request_latency_seconds",
			Help:      "Upstream source request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		BatchRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "runs_total",
			Help:      "Total number of batch enrichment runs by status",
		}, []string{"status"}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "duration_seconds",
			Help:      "Batch enrichment duration in seconds",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
		}),
		BatchEntities: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "batch",
			Name:      "entities_total",
			Help:      "Total number of batch entities by result",
		}, []string{"result"}),

		AnalysisRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of deep-dive analysis runs by outcome",
		}, []string{"outcome"}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Deep-dive analysis duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),

		CacheOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "ops_total",
			Help:      "Total number of cache operations by outcome",
		}, []string{"op", "outcome"}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		SnapshotTokens: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "snapshot_tokens",
			Help:      "Number of tokens in the current snapshot",
		}),
		LastRefresh: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_refresh_timestamp",
			Help:      "Unix timestamp of the last successful snapshot refresh",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSourceRequest records one upstream adapter request.
func RecordSourceRequest(source string, err error, seconds float64) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DefaultMetrics.SourceRequests.WithLabelValues(source, outcome).Inc()
	DefaultMetrics.SourceLatency.WithLabelValues(source).Observe(seconds)
}

// RecordBatchRun records a batch enrichment run.
func RecordBatchRun(status string, seconds float64, kept, dropped int) {
	DefaultMetrics.BatchRuns.WithLabelValues(status).Inc()
	DefaultMetrics.BatchDuration.Observe(seconds)
	DefaultMetrics.BatchEntities.WithLabelValues("kept").Add(float64(kept))
	DefaultMetrics.BatchEntities.WithLabelValues("dropped").Add(float64(dropped))
}

// RecordAnalysisRun records a deep-dive analysis run.
func RecordAnalysisRun(outcome string, seconds float64) {
	DefaultMetrics.AnalysisRuns.WithLabelValues(outcome).Inc()
	DefaultMetrics.AnalysisDuration.Observe(seconds)
}

// RecordCacheOp records a cache get/set outcome.
func RecordCacheOp(op, outcome string) {
	DefaultMetrics.CacheOps.WithLabelValues(op, outcome).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// UpdateSnapshot updates the snapshot health gauges.
func UpdateSnapshot(tokens int, refreshedAtUnix int64) {
	DefaultMetrics.SnapshotTokens.Set(float64(tokens))
	DefaultMetrics.LastRefresh.Set(float64(refreshedAtUnix))
}

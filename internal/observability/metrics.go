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
	// Watcher metrics
	LogEventsReceived  prometheus.Counter
	FailedTxSkipped    prometheus.Counter
	DuplicatesSkipped  prometheus.Counter
	LaunchesDetected   prometheus.Counter
	Resubscribes       prometheus.Counter

	// Pipeline metrics
	PipelinesStarted   prometheus.Counter
	PipelinesSucceeded prometheus.Counter
	PipelinesFailed    prometheus.Counter
	PipelineDuration   prometheus.Histogram
	TradesFetched      prometheus.Counter

	// Enrichment metrics
	TradersEnriched        prometheus.Counter
	TraderEnrichmentErrors prometheus.Counter

	// External call metrics
	RPCCallLatency    *prometheus.HistogramVec
	PriceBatchesTotal prometheus.Counter

	// Storage metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpwatch"
	}

	return &Metrics{
		LogEventsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "log_events_received_total",
			Help:      "Total number of log notifications received",
		}),
		FailedTxSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "failed_tx_skipped_total",
			Help:      "Total number of notifications skipped for failed transactions",
		}),
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "duplicates_skipped_total",
			Help:      "Total number of duplicate signatures skipped",
		}),
		LaunchesDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "launches_detected_total",
			Help:      "Total number of launch events dispatched to pipelines",
		}),
		Resubscribes: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "resubscribes_total",
			Help:      "Total number of log-stream resubscriptions",
		}),

		PipelinesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "started_total",
			Help:      "Total number of launch pipelines started",
		}),
		PipelinesSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "succeeded_total",
			Help:      "Total number of launch pipelines completed successfully",
		}),
		PipelinesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "failed_total",
			Help:      "Total number of launch pipelines abandoned",
		}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Launch pipeline execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		TradesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "trades_fetched_total",
			Help:      "Total number of trade records fetched",
		}),

		TradersEnriched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "traders_enriched_total",
			Help:      "Total number of traders enriched with holdings",
		}),
		TraderEnrichmentErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "trader_errors_total",
			Help:      "Total number of traders dropped due to enrichment failures",
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		PriceBatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prices",
			Name:      "batches_total",
			Help:      "Total number of price batch requests issued",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordLogEvent increments the log notifications counter.
func RecordLogEvent() {
	DefaultMetrics.LogEventsReceived.Inc()
}

// RecordFailedTxSkipped increments the failed-transaction skip counter.
func RecordFailedTxSkipped() {
	DefaultMetrics.FailedTxSkipped.Inc()
}

// RecordDuplicateSkipped increments the duplicate signature counter.
func RecordDuplicateSkipped() {
	DefaultMetrics.DuplicatesSkipped.Inc()
}

// RecordLaunchDetected increments the detected launches counter.
func RecordLaunchDetected() {
	DefaultMetrics.LaunchesDetected.Inc()
}

// RecordResubscribe increments the resubscription counter.
func RecordResubscribe() {
	DefaultMetrics.Resubscribes.Inc()
}

// RecordPipelineStart increments the started pipelines counter.
func RecordPipelineStart() {
	DefaultMetrics.PipelinesStarted.Inc()
}

// RecordPipelineResult records a pipeline outcome and its duration.
func RecordPipelineResult(ok bool, durationSeconds float64) {
	if ok {
		DefaultMetrics.PipelinesSucceeded.Inc()
	} else {
		DefaultMetrics.PipelinesFailed.Inc()
	}
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordTradesFetched adds to the fetched trade records counter.
func RecordTradesFetched(n int) {
	DefaultMetrics.TradesFetched.Add(float64(n))
}

// RecordTraderEnriched records the outcome of one trader enrichment.
func RecordTraderEnriched(err error) {
	if err != nil {
		DefaultMetrics.TraderEnrichmentErrors.Inc()
		return
	}
	DefaultMetrics.TradersEnriched.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordPriceBatch increments the price batch counter.
func RecordPriceBatch() {
	DefaultMetrics.PriceBatchesTotal.Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

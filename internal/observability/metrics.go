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
	// Scan metrics
	ScansTotal      prometheus.Counter
	ScanVerdicts    *prometheus.CounterVec
	ScanErrors      *prometheus.CounterVec
	DecodeFailures  *prometheus.CounterVec
	BatchesComplete prometheus.Counter

	// Watcher metrics
	WatchedAccounts       prometheus.Gauge
	AccountUpdatesHandled prometheus.Counter
	VerdictTransitions    *prometheus.CounterVec

	// Latency metrics
	RPCCallLatency    *prometheus.HistogramVec
	InspectionLatency prometheus.Histogram
	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec

	// Health metrics
	LastSuccessfulScan prometheus.Gauge
	HighestSlotSeen    prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_wifsperer"
	}

	return &Metrics{
		// Scan metrics
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "scans_total",
			Help:      "Total number of mint inspections completed",
		}),
		ScanVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "verdicts_total",
			Help:      "Total number of verdicts by security status",
		}, []string{"status"}),
		ScanErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "errors_total",
			Help:      "Total number of scan errors by stage",
		}, []string{"stage"}),
		DecodeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "decode_failures_total",
			Help:      "Total number of malformed account records by layout",
		}, []string{"layout"}),
		BatchesComplete: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "batches_complete_total",
			Help:      "Total number of scan batches completed",
		}),

		// Watcher metrics
		WatchedAccounts: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "watched_accounts",
			Help:      "Current number of mints under account subscription",
		}),
		AccountUpdatesHandled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "account_updates_handled_total",
			Help:      "Total number of account change notifications processed",
		}),
		VerdictTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "watcher",
			Name:      "verdict_transitions_total",
			Help:      "Total number of verdict changes observed on watched mints",
		}, []string{"from", "to"}),

		// Latency metrics
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		InspectionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scanner",
			Name:      "inspection_latency_seconds",
			Help:      "Full inspect+classify latency per mint in seconds",
			Buckets:   prometheus.DefBuckets,
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

		// Health metrics
		LastSuccessfulScan: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_scan_timestamp",
			Help:      "Unix timestamp of last successfully completed scan",
		}),
		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordVerdict counts one completed inspection with its status.
func RecordVerdict(status string) {
	DefaultMetrics.ScansTotal.Inc()
	DefaultMetrics.ScanVerdicts.WithLabelValues(status).Inc()
}

// RecordDecodeFailure counts one malformed account record.
func RecordDecodeFailure(layout string) {
	DefaultMetrics.DecodeFailures.WithLabelValues(layout).Inc()
}

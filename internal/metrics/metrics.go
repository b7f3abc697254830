package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldsync_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fieldsync_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Ingest metrics
	OverlaysApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsync_overlays_applied_total",
			Help: "Total number of overlays applied to the change log",
		},
	)

	OverlaysSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsync_overlays_skipped_total",
			Help: "Total number of overlays skipped for unsupported object names",
		},
	)

	ChainForksRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsync_chain_forks_rejected_total",
			Help: "Total number of batches rejected because they diverged from the chain head",
		},
	)

	HashMismatches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsync_hash_mismatches_total",
			Help: "Total number of batches rejected for a client/server hash disagreement",
		},
	)

	// Replay metrics
	ChainEntriesReplayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldsync_chain_entries_replayed_total",
			Help: "Total number of change log entries served through delta replay",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(OverlaysApplied)
	prometheus.MustRegister(OverlaysSkipped)
	prometheus.MustRegister(ChainForksRejected)
	prometheus.MustRegister(HashMismatches)
	prometheus.MustRegister(ChainEntriesReplayed)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

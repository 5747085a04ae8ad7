package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Alert ingestion metrics
	AlertsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capflow_alerts_received_total",
			Help: "Total number of webhook alerts received",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capflow_notifications_total",
			Help: "Total notification deliveries by outcome",
		},
		[]string{"outcome"},
	)

	// Store metrics
	StoreAppendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capflow_store_appends_total",
			Help: "Total signal store appends by outcome",
		},
		[]string{"backend", "outcome"},
	)

	// Feed metrics
	FeedRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "capflow_feed_requests_total",
			Help: "Total delayed feed requests served",
		},
	)

	FeedSignalsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "capflow_feed_signals_returned",
			Help:    "Number of signals returned per feed request",
			Buckets: []float64{0, 1, 5, 10, 20},
		},
	)

	// Upstream market-data metrics
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "capflow_upstream_fetch_duration_seconds",
			Help:    "Duration of upstream market-data fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	UpstreamFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capflow_upstream_fetch_errors_total",
			Help: "Total upstream market-data fetch failures",
		},
		[]string{"upstream"},
	)

	// Digest metrics
	DigestsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "capflow_digests_sent_total",
			Help: "Total economic calendar digests by outcome",
		},
		[]string{"outcome"},
	)
)

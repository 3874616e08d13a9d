package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Codec metrics
var (
	QueriesDecodedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formquery_queries_decoded_total",
			Help: "Total number of query strings decoded",
		},
	)

	QueriesEncodedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "formquery_queries_encoded_total",
			Help: "Total number of form states encoded",
		},
	)

	TokensRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formquery_tokens_rejected_total",
			Help: "Total number of query tokens dropped by the decoder",
		},
		[]string{"reason"},
	)

	AliasHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formquery_alias_hits_total",
			Help: "Total number of alias substitutions",
		},
		[]string{"direction"}, // "encode", "decode"
	)
)

// Data store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formquery_db_queries_total",
			Help: "Total number of data store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formquery_db_query_duration_seconds",
			Help:    "Data store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBRowsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formquery_db_rows_returned",
			Help:    "Rows returned per data store query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"operation"},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "formquery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "formquery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "formquery_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

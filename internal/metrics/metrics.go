// Package metrics defines Prometheus metrics for the docgraph server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// EngineDegraded counts engine failures that were answered with an empty result.
	EngineDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgraph_engine_degraded_total",
			Help: "Engine failures converted to empty results",
		},
		[]string{"collection", "op"},
	)

	EngineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docgraph_engine_operation_duration_seconds",
			Help:    "Document engine call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)

	// ReconcileDropped counts first-pass hits removed by exact matching.
	ReconcileDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docgraph_reconcile_dropped_total",
			Help: "Hits removed by exact-match reconciliation",
		},
		[]string{"collection"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgraph_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	VertexCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgraph_vertices_total",
			Help: "Vertex count at the last full count",
		},
	)

	EdgeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "docgraph_edges_total",
			Help: "Edge count at the last full count",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		EngineDegraded, EngineDuration, ReconcileDropped,
		WSConnections, VertexCount, EdgeCount,
	)
}

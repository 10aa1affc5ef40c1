// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atenciones_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "atenciones_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	VisitsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atenciones_visits_created_total",
		Help: "Visit records created.",
	})

	ProducersAutoCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atenciones_producers_auto_created_total",
		Help: "Producers created implicitly by a visit with an unseen cedula.",
	})

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atenciones_exports_total",
			Help: "Export requests by format and outcome.",
		},
		[]string{"format", "outcome"},
	)

	StatsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "atenciones_stats_cache_total",
			Help: "Dashboard statistics cache lookups by result.",
		},
		[]string{"result"},
	)

	RecordsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atenciones_records",
			Help: "Stored records by entity, sampled periodically.",
		},
		[]string{"entity"},
	)

	DBConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "atenciones_db_connections",
			Help: "PostgreSQL pool connections by state.",
		},
		[]string{"state"},
	)
)

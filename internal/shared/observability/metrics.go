package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tewsilty", Name: "orders_created_total", Help: "Total number of delivery orders created"})
	OrdersAccepted  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tewsilty", Name: "orders_accepted_total", Help: "Total number of orders accepted by drivers"})
	AcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tewsilty", Name: "accept_conflicts_total", Help: "Accept attempts lost because another driver claimed the order first"})
	LocationUpdates = promauto.NewCounter(prometheus.CounterOpts{Namespace: "tewsilty", Name: "location_updates_total", Help: "Driver location fixes processed"})
	WSClients       = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "tewsilty", Name: "ws_clients", Help: "Currently connected WebSocket clients"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "tewsilty", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tewsilty",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

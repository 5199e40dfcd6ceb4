// README: Prometheus metrics shared across the API.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RidesRequested = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "rides_requested_total", Help: "Rides created by riders",
	})
	RideTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hail", Name: "ride_transitions_total", Help: "Committed ride status transitions"},
		[]string{"to"},
	)
	AcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hail", Name: "accept_conflicts_total", Help: "Accept attempts lost to another driver",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hail", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hail",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

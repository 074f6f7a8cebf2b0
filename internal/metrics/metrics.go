// Package metrics holds the Prometheus collectors of the portfolio server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern, method and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration tracks request latency by route pattern and method.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// UpstreamCallsTotal counts calls to the image host and mail transport.
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_upstream_calls_total",
			Help: "Total number of calls to external services",
		},
		[]string{"service", "operation", "outcome"},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// DashboardVisitsTotal counts dashboard views recorded since start.
	DashboardVisitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_dashboard_visits_total",
			Help: "Total number of dashboard views recorded",
		},
	)

	// MessagesReceivedTotal counts accepted contact form submissions.
	MessagesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_messages_received_total",
			Help: "Total number of contact messages accepted",
		},
	)
)

// ObserveRequest records one handled HTTP request.
func ObserveRequest(route, method, status string, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveUpstream records the outcome of one external call.
func ObserveUpstream(service, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamCallsTotal.WithLabelValues(service, operation, outcome).Inc()
}

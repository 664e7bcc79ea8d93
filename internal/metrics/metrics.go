// Package metrics registers the Prometheus instruments exposed at
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LookupsTotal  *prometheus.CounterVec
	LookupsFailed prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geolocation_lookups_total",
				Help: "Geolocation lookups performed, by kind",
			},
			[]string{"kind"},
		),
		LookupsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "geolocation_lookups_failed_total",
				Help: "Geolocation lookups that ended in an error",
			},
		),
	}
}

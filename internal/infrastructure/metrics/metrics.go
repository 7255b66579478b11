package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's prometheus collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateFetchesTotal *prometheus.CounterVec
	ConversionsTotal prometheus.Counter
	TrendBuildsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors against the given registerer; pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_fetches_total",
				Help: "Snapshot loads by source (live or fallback)",
			},
			[]string{"source"},
		),

		ConversionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		TrendBuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trend_builds_total",
				Help: "Trend series builds by mode (historical or synthetic)",
			},
			[]string{"mode"},
		),
	}
}

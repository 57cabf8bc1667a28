package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SessionsMountedTotal prometheus.Counter
	SessionsActive       prometheus.Gauge
	MutationsTotal       *prometheus.CounterVec
	FetchFailuresTotal   *prometheus.CounterVec
	RateCacheLookups     *prometheus.CounterVec
}

// NewMetrics registers every collector with reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
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

		SessionsMountedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "calculator_sessions_mounted_total",
				Help: "Total number of calculator sessions mounted",
			},
		),

		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "calculator_sessions_active",
				Help: "Number of calculator sessions currently held in memory",
			},
		),

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calculator_mutations_total",
				Help: "Total number of session mutations by operation",
			},
			[]string{"operation"},
		),

		FetchFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calculator_fetch_failures_total",
				Help: "Total number of failed rate or date fetches",
			},
			[]string{"source"},
		),

		RateCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calculator_rate_cache_lookups_total",
				Help: "Upstream rate cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

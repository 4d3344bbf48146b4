package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SuggestRequests *prometheus.CounterVec
	SuggestStale    prometheus.Counter
	DetectOutcomes  *prometheus.CounterVec
	RequestSeconds  *prometheus.HistogramVec
	ProviderErrors  *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SuggestRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_suggest_requests_total",
			Help: "Total number of autocomplete requests by outcome.",
		}, []string{"outcome"}),
		SuggestStale: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "locator_suggest_stale_total",
			Help: "Total number of autocomplete responses discarded because a newer query superseded them.",
		}),
		DetectOutcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_detect_total",
			Help: "Total number of detect-location requests by outcome.",
		}, []string{"outcome"}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locator_provider_request_duration_seconds",
			Help:    "Duration of requests to the autocomplete and geocoding providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "op"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "locator_provider_errors_total",
			Help: "Total number of failed provider requests.",
		}, []string{"provider", "op"}),
		ActiveSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "locator_active_sessions",
			Help: "Current number of open report form sessions.",
		}),
	}
}

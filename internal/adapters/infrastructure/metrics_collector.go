package infrastructure

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricVectors struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	fallbacks     *prometheus.CounterVec
	settingsSaves *prometheus.CounterVec
}

var (
	vectorsOnce sync.Once
	vectors     *metricVectors
)

// registeredVectors registers the collectors with the default registry once
// per process.
func registeredVectors() *metricVectors {
	vectorsOnce.Do(func() {
		vectors = &metricVectors{
			fetches: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "briefsky_provider_fetches_total",
					Help: "Weather provider fetches by outcome",
				},
				[]string{"provider", "outcome"},
			),
			fetchDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "briefsky_provider_fetch_duration_seconds",
					Help:    "Weather provider fetch duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider"},
			),
			fallbacks: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "briefsky_provider_fallbacks_total",
					Help: "Requests served by the default provider because the configured one could not be constructed",
				},
				[]string{"requested"},
			),
			settingsSaves: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "briefsky_settings_saves_total",
					Help: "Saved settings by storage mode",
				},
				[]string{"storage"},
			),
		}
	})
	return vectors
}

// PrometheusMetricsCollector implements the MetricsCollector port
type PrometheusMetricsCollector struct {
	vectors *metricVectors
}

// NewPrometheusMetricsCollector creates a collector backed by the default registry
func NewPrometheusMetricsCollector() *PrometheusMetricsCollector {
	return &PrometheusMetricsCollector{vectors: registeredVectors()}
}

func (m *PrometheusMetricsCollector) RecordFetch(provider, outcome string, duration time.Duration) {
	m.vectors.fetches.WithLabelValues(provider, outcome).Inc()
	m.vectors.fetchDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *PrometheusMetricsCollector) RecordFallback(requested string) {
	m.vectors.fallbacks.WithLabelValues(requested).Inc()
}

func (m *PrometheusMetricsCollector) RecordSettingsSave(storage string) {
	m.vectors.settingsSaves.WithLabelValues(storage).Inc()
}

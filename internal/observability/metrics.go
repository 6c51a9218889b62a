package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// prediction service.
type Metrics struct {
	PredictionRequests *prometheus.CounterVec   // labels: use_case, outcome={success,validation_error,model_error,inference_error}
	InferenceDuration  *prometheus.HistogramVec // labels: use_case

	// Artifact lifecycle metrics.
	ArtifactLoads   *prometheus.CounterVec // labels: key, outcome={success,error,contract_error}
	ArtifactsLoaded prometheus.Gauge

	// Prediction event publishing metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beaconx",
			Name:      "prediction_requests_total",
			Help:      "Prediction requests by use case and outcome.",
		}, []string{"use_case", "outcome"}),
		InferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "beaconx",
			Name:      "inference_duration_seconds",
			Help:      "End-to-end duration of one use case call, features through decision.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"use_case"}),
		ArtifactLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "beaconx",
			Name:      "artifact_loads_total",
			Help:      "Model artifact load attempts by key and outcome.",
		}, []string{"key", "outcome"}),
		ArtifactsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "beaconx",
			Name:      "artifacts_loaded",
			Help:      "Number of model artifacts resident in the registry.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beaconx",
			Name:      "prediction_events_published_total",
			Help:      "Prediction events published to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "beaconx",
			Name:      "prediction_event_publish_errors_total",
			Help:      "Failed prediction event publishes.",
		}),
	}

	prometheus.MustRegister(
		m.PredictionRequests,
		m.InferenceDuration,
		m.ArtifactLoads,
		m.ArtifactsLoaded,
		m.EventsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// to avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PredictionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "beaconx", Name: "prediction_requests_total"}, []string{"use_case", "outcome"}),
		InferenceDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "beaconx", Name: "inference_duration_seconds"}, []string{"use_case"}),
		ArtifactLoads:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "beaconx", Name: "artifact_loads_total"}, []string{"key", "outcome"}),
		ArtifactsLoaded:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "beaconx", Name: "artifacts_loaded"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "beaconx", Name: "prediction_events_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "beaconx", Name: "prediction_event_publish_errors_total"}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast service.
type Metrics struct {
	ForecastRuns prometheus.Counter
	RunsRejected prometheus.Counter
	RunDuration  prometheus.Histogram

	StationsForecast prometheus.Counter
	StationsSkipped  *prometheus.CounterVec // labels: reason={no_historical_data,model_inference_error}

	// Model provider metrics.
	ModelRequests        *prometheus.CounterVec   // labels: model, outcome={success,error}
	ModelRequestDuration *prometheus.HistogramVec // labels: model
	PredictionCache      *prometheus.CounterVec   // labels: result={hit,miss}
	ModelLoaded          prometheus.Gauge
	ModelReloads         prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "runs_total",
			Help:      "Total forecast runs accepted for computation.",
		}),
		RunsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "runs_rejected_total",
			Help:      "Forecast requests rejected at scenario validation.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aqi_forecast",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete forecast run across all stations.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		StationsForecast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "stations_forecast_total",
			Help:      "Stations with a completed trajectory, across all runs.",
		}),
		StationsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "stations_skipped_total",
			Help:      "Stations excluded from a run, by reason.",
		}, []string{"reason"}),
		ModelRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "model_requests_total",
			Help:      "Regressor predict calls by provider and outcome.",
		}, []string{"model", "outcome"}),
		ModelRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aqi_forecast",
			Name:      "model_request_duration_seconds",
			Help:      "Regressor predict call duration in seconds.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"model"}),
		PredictionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "prediction_cache_total",
			Help:      "Prediction cache lookups by result.",
		}, []string{"result"}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aqi_forecast",
			Name:      "model_loaded",
			Help:      "1 when a regressor is loaded and serving, 0 otherwise.",
		}),
		ModelReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi_forecast",
			Name:      "model_reloads_total",
			Help:      "Successful model reloads since process start.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastRuns,
		m.RunsRejected,
		m.RunDuration,
		m.StationsForecast,
		m.StationsSkipped,
		m.ModelRequests,
		m.ModelRequestDuration,
		m.PredictionCache,
		m.ModelLoaded,
		m.ModelReloads,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastRuns:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "runs_total"}),
		RunsRejected:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "runs_rejected_total"}),
		RunDuration:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aqi_forecast", Name: "run_duration_seconds"}),
		StationsForecast:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "stations_forecast_total"}),
		StationsSkipped:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "stations_skipped_total"}, []string{"reason"}),
		ModelRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "model_requests_total"}, []string{"model", "outcome"}),
		ModelRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "aqi_forecast", Name: "model_request_duration_seconds"}, []string{"model"}),
		PredictionCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "prediction_cache_total"}, []string{"result"}),
		ModelLoaded:          prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aqi_forecast", Name: "model_loaded"}),
		ModelReloads:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi_forecast", Name: "model_reloads_total"}),
	}
}

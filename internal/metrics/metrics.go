// Package metrics provides centralized Prometheus metrics registry for the win predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roster_wins"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of win predictions by transport",
	}, []string{"source"})
	PredictionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed predictions",
	})
	PredictionsClampedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_clamped_total",
		Help:      "Total number of calibrated predictions clamped into the season range",
	})
	FeaturesReconciledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "features_reconciled_total",
		Help:      "Total number of features filled or dropped while aligning to the model",
	}, []string{"action"})
	PredictionCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_cache_total",
		Help:      "Prediction cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	ModelLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "model_loaded",
		Help:      "1 when a trained model is loaded for serving",
	})
	ModelFeatures = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "model_features",
		Help:      "Number of features the serving model expects",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_latency_seconds",
		Help:      "Latency of win predictions in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})
	PredictedWins = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "predicted_wins",
		Help:      "Distribution of served win predictions",
		Buckets:   prometheus.LinearBuckets(0, 10, 9),
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(PredictionsClampedTotal)
		registry.MustRegister(FeaturesReconciledTotal)
		registry.MustRegister(PredictionCacheTotal)

		registry.MustRegister(ModelLoaded)
		registry.MustRegister(ModelFeatures)

		registry.MustRegister(PredictionLatency)
		registry.MustRegister(PredictedWins)

		// Register training metrics
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(SearchCandidateScore)
		registry.MustRegister(ModelScore)
		registry.MustRegister(CalibrationCoefficient)
		registry.MustRegister(TeamsSkippedTotal)

		// Register datasource metrics
		registry.MustRegister(UpstreamRequestsTotal)
		registry.MustRegister(UpstreamLatency)
		registry.MustRegister(LookupCacheTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(RPCRequestsTotal)
		registry.MustRegister(RPCLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a served prediction.
func RecordPrediction(source string, wins, durationSeconds float64, clamped bool) {
	PredictionsTotal.WithLabelValues(source).Inc()
	PredictedWins.Observe(wins)
	PredictionLatency.Observe(durationSeconds)
	if clamped {
		PredictionsClampedTotal.Inc()
	}
}

// RecordPredictionError records a failed prediction.
func RecordPredictionError() {
	PredictionErrorsTotal.Inc()
}

// RecordReconciliation records features filled and dropped during alignment.
func RecordReconciliation(filled, dropped int) {
	if filled > 0 {
		FeaturesReconciledTotal.WithLabelValues("filled").Add(float64(filled))
	}
	if dropped > 0 {
		FeaturesReconciledTotal.WithLabelValues("dropped").Add(float64(dropped))
	}
}

// RecordPredictionCache records a prediction cache hit or miss.
func RecordPredictionCache(hit bool) {
	if hit {
		PredictionCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	PredictionCacheTotal.WithLabelValues("miss").Inc()
}

// UpdateModelLoaded updates the serving model gauges.
func UpdateModelLoaded(features int) {
	ModelLoaded.Set(1)
	ModelFeatures.Set(float64(features))
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// Training counter vectors
var (
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "training_runs_total",
		Help:      "Total number of training runs by trigger and status",
	}, []string{"trigger", "status"})
	TeamsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "teams_skipped_total",
		Help:      "Team-seasons excluded from training for lack of player rows",
	})
)

// Training histograms
var (
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "training_duration_seconds",
		Help:      "Duration of training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	SearchCandidateScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "search_candidate_cv_r2",
		Help:      "Mean cross-validated R2 of search candidates",
		Buckets:   []float64{-1, 0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// Training gauge vectors
var (
	ModelScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "model_score",
		Help:      "Diagnostics of the most recently trained model",
	}, []string{"metric"})
	CalibrationCoefficient = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "calibration_coefficient",
		Help:      "Calibration intercept and slope of the most recently trained model",
	}, []string{"coefficient"})
)

// RecordTrainingRun records a training run.
// trigger should be one of: "cli", "scheduler"
// status should be one of: "success", "failure"
func RecordTrainingRun(trigger, status string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(trigger, status).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordSearchCandidate records one candidate's mean CV score.
func RecordSearchCandidate(score float64) {
	SearchCandidateScore.Observe(score)
}

// UpdateModelScores sets the diagnostics gauges from a metric map.
func UpdateModelScores(scores map[string]float64) {
	for name, v := range scores {
		ModelScore.WithLabelValues(name).Set(v)
	}
}

// UpdateCalibration sets the calibration gauges.
func UpdateCalibration(alpha, beta float64) {
	CalibrationCoefficient.WithLabelValues("alpha").Set(alpha)
	CalibrationCoefficient.WithLabelValues("beta").Set(beta)
}

// RecordTeamSkipped records a team-season dropped from the training set.
func RecordTeamSkipped() {
	TeamsSkippedTotal.Inc()
}

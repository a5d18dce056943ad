package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for training and prediction.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogSearchCandidate logs the cross-validated score of one search candidate.
func (pl *PipelineLogger) LogSearchCandidate(index int, hyperparameters map[string]interface{}, meanScore float64, foldScores []float64) {
	pl.WithFields(logrus.Fields{
		"candidate":       index,
		"hyperparameters": hyperparameters,
		"mean_r2":         meanScore,
		"fold_r2":         foldScores,
	}).Debug("Search candidate evaluated")
}

// LogSearchCompleted logs the winning configuration of a randomized search.
func (pl *PipelineLogger) LogSearchCompleted(candidates int, bestScore float64, hyperparameters map[string]interface{}) {
	pl.WithFields(logrus.Fields{
		"candidates":      candidates,
		"best_cv_r2":      bestScore,
		"hyperparameters": hyperparameters,
	}).Info("Hyperparameter search completed")
}

// LogModelTraining logs model training events.
func (pl *PipelineLogger) LogModelTraining(runID string, rows, features int, trainingDuration float64, metrics map[string]float64, hyperparameters map[string]interface{}) {
	pl.WithFields(logrus.Fields{
		"run_id":            runID,
		"rows":              rows,
		"features":          features,
		"training_duration": trainingDuration,
		"metrics":           metrics,
		"hyperparameters":   hyperparameters,
	}).Info("Model training completed")
}

// LogCalibration logs the fitted calibration line.
func (pl *PipelineLogger) LogCalibration(alpha, beta float64) {
	pl.WithFields(logrus.Fields{
		"alpha":    alpha,
		"beta":     beta,
		"equation": fmt.Sprintf("Wins = %.4f + %.4f * raw_pred", alpha, beta),
	}).Info("Calibration fitted")
}

// LogReconciliation logs how a feature vector was aligned to a model's
// feature list. Any fill or drop is logged at warn level.
func (pl *PipelineLogger) LogReconciliation(modelID string, expected int, filled, dropped []string) {
	entry := pl.WithFields(logrus.Fields{
		"model_id":      modelID,
		"expected":      expected,
		"filled_count":  len(filled),
		"dropped_count": len(dropped),
	})
	if len(filled) == 0 && len(dropped) == 0 {
		entry.Debug("Feature vector matches model")
		return
	}
	entry.WithFields(logrus.Fields{
		"filled":  filled,
		"dropped": dropped,
	}).Warn("Feature set drift reconciled")
}

// LogPrediction logs a completed prediction.
func (pl *PipelineLogger) LogPrediction(modelID string, players int, raw, wins float64, clamped, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"model_id":   modelID,
		"players":    players,
		"raw":        raw,
		"wins":       wins,
		"clamped":    clamped,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Debug("Prediction completed")
}

// LogSkippedTeam logs a team-season excluded from the training set.
func (pl *PipelineLogger) LogSkippedTeam(team, season, reason string) {
	pl.WithFields(logrus.Fields{
		"team":   team,
		"season": season,
		"reason": reason,
	}).Warn("Team skipped")
}

// LogPredictionError logs prediction failures.
func (pl *PipelineLogger) LogPredictionError(modelID string, err error) {
	pl.WithFields(logrus.Fields{
		"model_id": modelID,
		"error":    err.Error(),
	}).Error("Prediction failed")
}

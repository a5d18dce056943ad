package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for model lifecycle events.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogArtifactSaved logs a model artifact written to storage.
func (al *AuditLogger) LogArtifactSaved(modelID, location string, features int, trainedAt time.Time) {
	al.WithFields(logrus.Fields{
		"model_id":   modelID,
		"location":   location,
		"features":   features,
		"trained_at": trainedAt.Unix(),
	}).Info("Model artifact saved")
}

// LogModelRegistered logs a model row inserted into the registry.
func (al *AuditLogger) LogModelRegistered(modelID, name, version string, metrics map[string]float64) {
	al.WithFields(logrus.Fields{
		"model_id": modelID,
		"name":     name,
		"version":  version,
		"metrics":  metrics,
	}).Info("Model registered")
}

// LogModelActivated logs a model becoming the serving model.
func (al *AuditLogger) LogModelActivated(modelID, previousID, source string) {
	al.WithFields(logrus.Fields{
		"model_id":    modelID,
		"previous_id": previousID,
		"source":      source,
	}).Info("Model activated")
}

// LogRetrainFailure logs a scheduled retrain that left the serving model unchanged.
func (al *AuditLogger) LogRetrainFailure(reason string, err error) {
	al.WithFields(logrus.Fields{
		"reason": reason,
		"error":  err.Error(),
	}).Error("Retrain failed, keeping current model")
}

package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	log := NewLogger("info")
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestPipelineLoggerCalibration(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogCalibration(5, 0.8)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pipeline", logEntry["component"])
	assert.Equal(t, "Wins = 5.0000 + 0.8000 * raw_pred", logEntry["equation"])
	assert.Equal(t, 0.8, logEntry["beta"])
}

func TestPipelineLoggerReconciliationDrift(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogReconciliation("model-1", 27, []string{"TEAM_AVG_EFG"}, nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "warning", logEntry["level"])
	assert.Equal(t, float64(1), logEntry["filled_count"])
	assert.Equal(t, float64(0), logEntry["dropped_count"])
}

func TestPipelineLoggerReconciliationClean(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogReconciliation("model-1", 27, nil, nil)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "debug", logEntry["level"])
}

func TestPipelineLoggerSkippedTeam(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogSkippedTeam("Seattle SuperSonics", "2013-14", "no player rows")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "Seattle SuperSonics", logEntry["team"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestPipelineLoggerModelTraining(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogModelTraining(
		"run-42",
		300,
		33,
		12.5,
		map[string]float64{"cv_r2": 0.61, "train_r2_calibrated": 0.83},
		map[string]interface{}{"learning_rate": 0.03, "max_depth": 3},
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run-42", logEntry["run_id"])
	assert.Equal(t, float64(33), logEntry["features"])
}

func TestPipelineLoggerPredictionError(t *testing.T) {
	log, buf := setupTestLogger()
	pl := NewPipelineLogger(log)

	pl.LogPredictionError("model-1", errors.New("artifact missing"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "artifact missing", logEntry["error"])
}

func TestAuditLoggerModelActivated(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogModelActivated("model-2", "model-1", "scheduler")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, "model-1", logEntry["previous_id"])
}

func TestAuditLoggerArtifactSaved(t *testing.T) {
	log, buf := setupTestLogger()
	al := NewAuditLogger(log)

	al.LogArtifactSaved("model-2", "models/wins.json", 33, time.Date(2024, 2, 3, 12, 0, 0, 0, time.UTC))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "models/wins.json", logEntry["location"])
	assert.Equal(t, float64(1706961600), logEntry["trained_at"])
}

func TestDiscardLogger(t *testing.T) {
	log := Discard()
	assert.NotPanics(t, func() { log.Error("dropped") })
}

func BenchmarkPipelineLoggerPrediction(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	pl := NewPipelineLogger(log)

	for i := 0; i < b.N; i++ {
		pl.LogPrediction("model-1", 5, 50, 45, false, true, 0.2)
	}
}

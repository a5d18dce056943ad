package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ModelRecord represents a persisted win-model artifact in the registry
type ModelRecord struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required"`
	Name            string          `db:"name" json:"name" validate:"required"`
	Version         string          `db:"version" json:"version" validate:"required"`
	ModelType       string          `db:"model_type" json:"model_type" validate:"required"`
	Blob            json.RawMessage `db:"blob" json:"-"`
	Metrics         json.RawMessage `db:"metrics" json:"metrics"`
	Hyperparameters json.RawMessage `db:"hyperparameters" json:"hyperparameters"`
	TrainedAt       time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// IsActive checks if the model is currently active
func (m *ModelRecord) IsActive() bool {
	return m.Active
}

// GetMetric retrieves a metric value from the Metrics JSON
func (m *ModelRecord) GetMetric(name string) (float64, bool, error) {
	if m.Metrics == nil {
		return 0, false, nil
	}

	var metrics map[string]float64
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return 0, false, err
	}

	v, ok := metrics[name]
	return v, ok, nil
}

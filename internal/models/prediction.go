package models

import (
	"time"

	"github.com/google/uuid"
)

// Strength is one ranked feature contribution rendered for display.
type Strength struct {
	Feature    string  `json:"feature"`
	Label      string  `json:"label"`
	Importance float64 `json:"importance"`
	// RelativeImpact is the importance as a percentage of the top-ranked entry.
	RelativeImpact float64 `json:"relative_impact"`
}

// Prediction represents one calibrated win estimate for a roster
type Prediction struct {
	ModelID         uuid.UUID  `json:"model_id"`
	Players         []string   `json:"players"`
	RawPrediction   float64    `json:"raw_prediction"`
	CalibratedWins  float64    `json:"calibrated_wins"`
	Wins            float64    `json:"wins" validate:"gte=0,lte=82"`
	Strengths       []Strength `json:"strengths,omitempty"`
	ImportanceScope string     `json:"importance_scope,omitempty"`
	FilledFeatures  []string   `json:"filled_features,omitempty"`
	DroppedFeatures []string   `json:"dropped_features,omitempty"`
	PredictedAt     time.Time  `json:"predicted_at"`
}

// Clamped reports whether calibration overshot the valid win range
func (p *Prediction) Clamped() bool {
	return p.Wins != p.CalibratedWins
}

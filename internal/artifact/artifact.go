// Package artifact defines the trained model unit: a regressor, the ordered
// feature list it was fitted on, and its calibration line. The three are
// always created, persisted and loaded together.
package artifact

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Regressor is the fitted nonlinear model inside an artifact.
type Regressor interface {
	Predict(x []float64) float64
	FeatureImportances() []float64
}

// widthReporter is implemented by regressors that know their input width.
type widthReporter interface {
	NumFeaturesIn() int
}

// Metadata carries non-contract information about a training run.
type Metadata struct {
	ID        uuid.UUID
	TrainedAt time.Time
	Metrics   map[string]float64
}

// TrainedModel is immutable once constructed. Any number of goroutines may
// share one instance.
type TrainedModel struct {
	id        uuid.UUID
	regressor Regressor
	features  []string
	alpha     float64
	beta      float64
	trainedAt time.Time
	metrics   map[string]float64
}

// New assembles a TrainedModel. The feature list is copied and must match the
// regressor's input width when the regressor reports one.
func New(reg Regressor, features []string, alpha, beta float64, meta Metadata) (*TrainedModel, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: regressor", ErrMissingField)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: features", ErrMissingField)
	}
	if w, ok := reg.(widthReporter); ok && w.NumFeaturesIn() != len(features) {
		return nil, fmt.Errorf("%w: %d names for %d inputs", ErrFeatureMismatch, len(features), w.NumFeaturesIn())
	}
	seen := make(map[string]bool, len(features))
	for _, f := range features {
		if f == "" || seen[f] {
			return nil, fmt.Errorf("%w: empty or duplicate feature name %q", ErrFeatureMismatch, f)
		}
		seen[f] = true
	}
	if !finite(alpha) || !finite(beta) {
		return nil, fmt.Errorf("%w: alpha=%v beta=%v", ErrInvalidCalibration, alpha, beta)
	}

	id := meta.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	trainedAt := meta.TrainedAt
	if trainedAt.IsZero() {
		trainedAt = time.Now().UTC()
	}
	metrics := make(map[string]float64, len(meta.Metrics))
	for k, v := range meta.Metrics {
		metrics[k] = v
	}

	return &TrainedModel{
		id:        id,
		regressor: reg,
		features:  append([]string(nil), features...),
		alpha:     alpha,
		beta:      beta,
		trainedAt: trainedAt,
		metrics:   metrics,
	}, nil
}

// ID returns the artifact identifier.
func (m *TrainedModel) ID() uuid.UUID { return m.id }

// Regressor returns the fitted regressor.
func (m *TrainedModel) Regressor() Regressor { return m.regressor }

// Alpha returns the calibration intercept.
func (m *TrainedModel) Alpha() float64 { return m.alpha }

// Beta returns the calibration slope.
func (m *TrainedModel) Beta() float64 { return m.beta }

// TrainedAt returns when the model was fitted.
func (m *TrainedModel) TrainedAt() time.Time { return m.trainedAt }

// NumFeatures returns the number of model inputs.
func (m *TrainedModel) NumFeatures() int { return len(m.features) }

// Features returns a copy of the ordered feature list.
func (m *TrainedModel) Features() []string {
	return append([]string(nil), m.features...)
}

// Metrics returns a copy of the training diagnostics.
func (m *TrainedModel) Metrics() map[string]float64 {
	out := make(map[string]float64, len(m.metrics))
	for k, v := range m.metrics {
		out[k] = v
	}
	return out
}

// Raw runs the regressor on a row already ordered by Features.
func (m *TrainedModel) Raw(row []float64) float64 {
	return m.regressor.Predict(row)
}

// Calibrate maps a raw regressor output through alpha + beta*raw.
// The result is not clamped.
func (m *TrainedModel) Calibrate(raw float64) float64 {
	return m.alpha + m.beta*raw
}

// Importances returns the regressor's global importance per feature, aligned
// with Features. A regressor reporting the wrong length yields all zeros.
func (m *TrainedModel) Importances() []float64 {
	imp := m.regressor.FeatureImportances()
	if len(imp) != len(m.features) {
		return make([]float64, len(m.features))
	}
	return append([]float64(nil), imp...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

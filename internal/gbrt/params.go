package gbrt

import "fmt"

// Params holds the boosting hyperparameters.
type Params struct {
	NEstimators    int     `json:"n_estimators"`
	LearningRate   float64 `json:"learning_rate"`
	MaxDepth       int     `json:"max_depth"`
	MinSamplesLeaf int     `json:"min_samples_leaf"`
	Subsample      float64 `json:"subsample"`
	Seed           int64   `json:"seed"`
}

// DefaultParams returns a conservative configuration.
func DefaultParams() Params {
	return Params{
		NEstimators:    300,
		LearningRate:   0.03,
		MaxDepth:       3,
		MinSamplesLeaf: 2,
		Subsample:      0.8,
		Seed:           42,
	}
}

// Validate checks that every hyperparameter is usable
func (p Params) Validate() error {
	switch {
	case p.NEstimators < 1:
		return fmt.Errorf("%w: n_estimators must be at least 1, got %d", ErrInvalidParams, p.NEstimators)
	case p.LearningRate <= 0 || p.LearningRate > 1:
		return fmt.Errorf("%w: learning_rate must be in (0, 1], got %g", ErrInvalidParams, p.LearningRate)
	case p.MaxDepth < 1:
		return fmt.Errorf("%w: max_depth must be at least 1, got %d", ErrInvalidParams, p.MaxDepth)
	case p.MinSamplesLeaf < 1:
		return fmt.Errorf("%w: min_samples_leaf must be at least 1, got %d", ErrInvalidParams, p.MinSamplesLeaf)
	case p.Subsample <= 0 || p.Subsample > 1:
		return fmt.Errorf("%w: subsample must be in (0, 1], got %g", ErrInvalidParams, p.Subsample)
	}
	return nil
}

// String renders the parameters for logs.
func (p Params) String() string {
	return fmt.Sprintf("n_estimators=%d learning_rate=%g max_depth=%d min_samples_leaf=%d subsample=%g",
		p.NEstimators, p.LearningRate, p.MaxDepth, p.MinSamplesLeaf, p.Subsample)
}

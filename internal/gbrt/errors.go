package gbrt

import "errors"

var (
	// ErrEmptyTrainingSet is returned when Fit receives no samples
	ErrEmptyTrainingSet = errors.New("empty training set")
	// ErrDimensionMismatch is returned when sample rows or labels disagree in size
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidParams is returned when hyperparameters are out of range
	ErrInvalidParams = errors.New("invalid hyperparameters")
)

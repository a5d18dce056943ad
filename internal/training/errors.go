package training

import "errors"

var (
	// ErrNoTrainingRows is returned when no usable team-season remains
	ErrNoTrainingRows = errors.New("no training rows")
	// ErrNoValidCandidate is returned when every search candidate failed to score
	ErrNoValidCandidate = errors.New("no valid search candidate")
	// ErrTooFewRows is returned when there are fewer rows than folds
	ErrTooFewRows = errors.New("fewer rows than folds")
)

package artifact

import "errors"

var (
	// ErrMissingField is returned when a persisted artifact lacks a required field
	ErrMissingField = errors.New("artifact missing required field")
	// ErrUnsupportedVersion is returned for artifacts written by an unknown format version
	ErrUnsupportedVersion = errors.New("unsupported artifact format version")
	// ErrUnsupportedModelType is returned when the regressor kind cannot be decoded
	ErrUnsupportedModelType = errors.New("unsupported model type")
	// ErrFeatureMismatch is returned when the feature list and regressor width disagree
	ErrFeatureMismatch = errors.New("feature list does not match regressor")
	// ErrInvalidCalibration is returned for non-finite calibration coefficients
	ErrInvalidCalibration = errors.New("invalid calibration coefficients")
)

package predict

import "errors"

// ErrNoModel is returned when no trained model is available for prediction
var ErrNoModel = errors.New("no trained model loaded")

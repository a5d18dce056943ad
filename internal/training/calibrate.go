package training

import (
	"fmt"
	"math"

	"github.com/sajari/regression"
	"gonum.org/v1/gonum/stat"
)

// Calibrate fits wins ≈ alpha + beta*raw by ordinary least squares.
// When raw has no spread the line is flat at mean(y).
func Calibrate(raw, y []float64) (alpha, beta float64, err error) {
	if len(raw) == 0 || len(raw) != len(y) {
		return 0, 0, fmt.Errorf("calibration needs equal non-empty inputs, got %d and %d", len(raw), len(y))
	}

	if len(raw) < 2 || !(stat.Variance(raw, nil) > 0) {
		return stat.Mean(y, nil), 0, nil
	}

	var r regression.Regression
	r.SetObserved("wins")
	r.SetVar(0, "raw_pred")
	for i := range raw {
		r.Train(regression.DataPoint(y[i], []float64{raw[i]}))
	}
	if err := r.Run(); err != nil {
		return 0, 0, fmt.Errorf("calibration regression failed: %w", err)
	}

	coeffs := r.GetCoeffs()
	if len(coeffs) < 2 {
		return 0, 0, fmt.Errorf("calibration returned %d coefficients", len(coeffs))
	}
	alpha, beta = coeffs[0], coeffs[1]
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return 0, 0, fmt.Errorf("calibration produced non-finite coefficients alpha=%v beta=%v", alpha, beta)
	}
	return alpha, beta, nil
}

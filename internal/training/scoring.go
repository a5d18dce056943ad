package training

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// R2 returns the coefficient of determination of pred against truth.
// A constant truth scores 1 when matched exactly and 0 otherwise.
func R2(truth, pred []float64) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return math.NaN()
	}
	mean := stat.Mean(truth, nil)
	ssTot := 0.0
	for _, v := range truth {
		d := v - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		if floats.Equal(truth, pred) {
			return 1
		}
		return 0
	}
	return stat.RSquaredFrom(pred, truth, nil)
}

// RMSE returns the root mean squared error of pred against truth.
func RMSE(truth, pred []float64) float64 {
	if len(truth) == 0 || len(truth) != len(pred) {
		return math.NaN()
	}
	return floats.Distance(truth, pred, 2) / math.Sqrt(float64(len(truth)))
}

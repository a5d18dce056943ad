package training

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrateRecoversLine(t *testing.T) {
	raw := []float64{30, 40, 50, 60, 70}
	y := make([]float64, len(raw))
	for i, r := range raw {
		y[i] = 5 + 0.8*r
	}

	alpha, beta, err := Calibrate(raw, y)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, alpha, 1e-6)
	assert.InDelta(t, 0.8, beta, 1e-6)
}

func TestCalibrateStretchesShrunkOutput(t *testing.T) {
	// boosted output pulled toward the mean needs beta > 1
	raw := []float64{38, 40, 41, 42, 44}
	y := []float64{20, 35, 41, 47, 62}

	_, beta, err := Calibrate(raw, y)
	require.NoError(t, err)
	assert.Greater(t, beta, 1.0)
}

func TestCalibrateConstantRaw(t *testing.T) {
	alpha, beta, err := Calibrate([]float64{41, 41, 41}, []float64{30, 40, 50})
	require.NoError(t, err)
	assert.Equal(t, 40.0, alpha)
	assert.Equal(t, 0.0, beta)

	alpha, beta, err = Calibrate([]float64{12}, []float64{50})
	require.NoError(t, err)
	assert.Equal(t, 50.0, alpha)
	assert.Equal(t, 0.0, beta)
}

func TestCalibrateRejectsMismatch(t *testing.T) {
	_, _, err := Calibrate(nil, nil)
	assert.Error(t, err)

	_, _, err = Calibrate([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

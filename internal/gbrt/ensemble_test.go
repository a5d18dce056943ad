package gbrt

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepData returns y = 10 when x0 > 5 else 0, with x1 as pure noise.
func stepData() ([][]float64, []float64) {
	var x [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		x0 := float64(i % 10)
		x1 := float64((i * 7) % 13)
		x = append(x, []float64{x0, x1})
		if x0 > 5 {
			y = append(y, 10)
		} else {
			y = append(y, 0)
		}
	}
	return x, y
}

func testParams() Params {
	return Params{
		NEstimators:    100,
		LearningRate:   0.1,
		MaxDepth:       2,
		MinSamplesLeaf: 1,
		Subsample:      1.0,
		Seed:           42,
	}
}

// TestFitLearnsStepFunction tests that boosting recovers a simple threshold
func TestFitLearnsStepFunction(t *testing.T) {
	x, y := stepData()

	e, err := Fit(x, y, testParams())
	require.NoError(t, err)

	assert.InDelta(t, 0.0, e.Predict([]float64{2, 3}), 0.1)
	assert.InDelta(t, 10.0, e.Predict([]float64{8, 3}), 0.1)
	assert.Len(t, e.Trees, 100)
	assert.Equal(t, 2, e.NumFeaturesIn())
}

func TestFeatureImportancesFavourSignal(t *testing.T) {
	x, y := stepData()

	e, err := Fit(x, y, testParams())
	require.NoError(t, err)

	imp := e.FeatureImportances()
	require.Len(t, imp, 2)
	assert.InDelta(t, 1.0, imp[0]+imp[1], 1e-9)
	assert.Greater(t, imp[0], imp[1])
}

func TestFitIsDeterministic(t *testing.T) {
	x, y := stepData()
	p := testParams()
	p.Subsample = 0.7
	p.Seed = 7

	a, err := Fit(x, y, p)
	require.NoError(t, err)
	b, err := Fit(x, y, p)
	require.NoError(t, err)

	assert.Equal(t, a.PredictBatch(x), b.PredictBatch(x))
	assert.Equal(t, a.FeatureImportances(), b.FeatureImportances())
}

func TestFitConstantLabels(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{41, 41, 41, 41}

	e, err := Fit(x, y, testParams())
	require.NoError(t, err)

	assert.Equal(t, 41.0, e.Predict([]float64{100}))
	assert.Equal(t, []float64{0}, e.FeatureImportances())
}

func TestFitRespectsDepthAndLeafSize(t *testing.T) {
	x, y := stepData()
	p := testParams()
	p.MaxDepth = 3
	p.MinSamplesLeaf = 3
	p.NEstimators = 10

	e, err := Fit(x, y, p)
	require.NoError(t, err)

	for _, tree := range e.Trees {
		assert.LessOrEqual(t, tree.Depth(), 3)
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	p := testParams()

	_, err := Fit(nil, nil, p)
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)

	_, err = Fit([][]float64{{1}, {2}}, []float64{1}, p)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Fit([][]float64{{1}, {2, 3}}, []float64{1, 2}, p)
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	bad := p
	bad.Subsample = 0
	_, err = Fit([][]float64{{1}}, []float64{1}, bad)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"no estimators", func(p *Params) { p.NEstimators = 0 }},
		{"zero learning rate", func(p *Params) { p.LearningRate = 0 }},
		{"learning rate above one", func(p *Params) { p.LearningRate = 1.5 }},
		{"zero depth", func(p *Params) { p.MaxDepth = 0 }},
		{"zero leaf", func(p *Params) { p.MinSamplesLeaf = 0 }},
		{"subsample above one", func(p *Params) { p.Subsample = 1.2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
	assert.NoError(t, DefaultParams().Validate())
}

func TestEnsembleSurvivesJSON(t *testing.T) {
	x, y := stepData()
	e, err := Fit(x, y, testParams())
	require.NoError(t, err)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded Ensemble
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, decoded.Check())

	for _, row := range x {
		assert.InDelta(t, e.Predict(row), decoded.Predict(row), 1e-9)
	}
}

func TestCheckRejectsCorruptTree(t *testing.T) {
	e := &Ensemble{
		Params:      testParams(),
		NumFeatures: 1,
		Trees:       []Tree{{Nodes: []Node{{Feature: 3, Left: 1, Right: 2}, {Feature: -1}, {Feature: -1}}}},
	}
	assert.ErrorIs(t, e.Check(), ErrDimensionMismatch)

	e.Trees[0].Nodes[0].Feature = 0
	e.Trees[0].Nodes[0].Right = 9
	assert.Error(t, e.Check())

	e.Trees = nil
	e.Init = math.NaN()
	assert.ErrorIs(t, e.Check(), ErrInvalidParams)
}

func TestSampleRows(t *testing.T) {
	idx := sampleRows(nil, 4, 4)
	assert.Equal(t, []int{0, 1, 2, 3}, idx)
}

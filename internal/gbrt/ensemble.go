// Package gbrt implements least-squares gradient boosting over regression trees.
package gbrt

import (
	"fmt"
	"math"
	"math/rand"
)

// Ensemble is a fitted boosted tree model. It is safe for concurrent Predict
// calls once fitted and must not be modified afterwards.
type Ensemble struct {
	Params      Params    `json:"params"`
	Init        float64   `json:"init"`
	NumFeatures int       `json:"n_features"`
	Trees       []Tree    `json:"trees"`
	Importances []float64 `json:"importances"`
}

// Fit trains an ensemble on x (rows of equal width) against y.
//
// The initial estimate is mean(y). Each stage fits a tree to the current
// residuals on a subsample drawn without replacement, then adds it scaled by
// the learning rate. Fitting is deterministic for a given Params.Seed.
func Fit(x [][]float64, y []float64, p Params) (*Ensemble, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, len(x), len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), width)
		}
	}

	n := len(y)
	init := 0.0
	for _, v := range y {
		init += v
	}
	init /= float64(n)

	e := &Ensemble{
		Params:      p,
		Init:        init,
		NumFeatures: width,
		Trees:       make([]Tree, 0, p.NEstimators),
	}

	pred := make([]float64, n)
	for i := range pred {
		pred[i] = init
	}
	residual := make([]float64, n)
	rng := rand.New(rand.NewSource(p.Seed))
	sampleSize := int(p.Subsample * float64(n))
	if sampleSize < 1 {
		sampleSize = 1
	}

	imp := make([]float64, width)
	stageImp := make([]float64, width)
	for stage := 0; stage < p.NEstimators; stage++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		idx := sampleRows(rng, n, sampleSize)
		for f := range stageImp {
			stageImp[f] = 0
		}
		tree := fitTree(x, residual, idx, p.MaxDepth, p.MinSamplesLeaf, stageImp)

		if s := total(stageImp); s > 0 {
			for f := range imp {
				imp[f] += stageImp[f] / s
			}
		}

		for i := range pred {
			pred[i] += p.LearningRate * tree.Predict(x[i])
		}
		e.Trees = append(e.Trees, tree)
	}

	if s := total(imp); s > 0 {
		for f := range imp {
			imp[f] /= s
		}
	}
	e.Importances = imp
	return e, nil
}

// sampleRows returns all row indices when size covers n, otherwise a random
// subset of the given size in ascending order.
func sampleRows(rng *rand.Rand, n, size int) []int {
	if size >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	perm := rng.Perm(n)[:size]
	picked := make([]bool, n)
	for _, i := range perm {
		picked[i] = true
	}
	idx := make([]int, 0, size)
	for i, ok := range picked {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// Predict returns the ensemble output for one sample.
func (e *Ensemble) Predict(x []float64) float64 {
	out := e.Init
	for i := range e.Trees {
		out += e.Params.LearningRate * e.Trees[i].Predict(x)
	}
	return out
}

// PredictBatch predicts every row of x
func (e *Ensemble) PredictBatch(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = e.Predict(row)
	}
	return out
}

// FeatureImportances returns the normalised impurity-decrease importance per
// feature column. The values sum to 1, or are all zero when no tree split.
func (e *Ensemble) FeatureImportances() []float64 {
	return append([]float64(nil), e.Importances...)
}

// NumFeaturesIn returns the expected sample width.
func (e *Ensemble) NumFeaturesIn() int {
	return e.NumFeatures
}

// Check verifies that a decoded ensemble is internally consistent.
func (e *Ensemble) Check() error {
	if e.NumFeatures < 1 {
		return fmt.Errorf("%w: ensemble has no features", ErrDimensionMismatch)
	}
	if len(e.Importances) != 0 && len(e.Importances) != e.NumFeatures {
		return fmt.Errorf("%w: %d importances for %d features", ErrDimensionMismatch, len(e.Importances), e.NumFeatures)
	}
	if math.IsNaN(e.Init) || math.IsInf(e.Init, 0) {
		return fmt.Errorf("%w: non-finite initial estimate", ErrInvalidParams)
	}
	if e.Params.LearningRate <= 0 {
		return fmt.Errorf("%w: learning_rate %g", ErrInvalidParams, e.Params.LearningRate)
	}
	for t, tree := range e.Trees {
		for i, n := range tree.Nodes {
			if n.IsLeaf() {
				continue
			}
			if n.Feature >= e.NumFeatures {
				return fmt.Errorf("%w: tree %d node %d splits on feature %d", ErrDimensionMismatch, t, i, n.Feature)
			}
			if n.Left <= i || n.Right <= i || n.Left >= len(tree.Nodes) || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has invalid children", t, i)
			}
		}
	}
	return nil
}

func total(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

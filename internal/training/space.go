package training

import (
	"math/rand"

	"github.com/yourusername/roster-wins/internal/gbrt"
)

// ParamSpace is the discrete hyperparameter grid sampled by the search.
type ParamSpace struct {
	NEstimators    []int     `mapstructure:"n_estimators" json:"n_estimators"`
	LearningRate   []float64 `mapstructure:"learning_rate" json:"learning_rate"`
	MaxDepth       []int     `mapstructure:"max_depth" json:"max_depth"`
	MinSamplesLeaf []int     `mapstructure:"min_samples_leaf" json:"min_samples_leaf"`
	Subsample      []float64 `mapstructure:"subsample" json:"subsample"`
}

// DefaultSpace returns the grid used for win-total models.
func DefaultSpace() ParamSpace {
	return ParamSpace{
		NEstimators:    []int{200, 300, 500, 800},
		LearningRate:   []float64{0.01, 0.02, 0.03, 0.05},
		MaxDepth:       []int{2, 3, 4},
		MinSamplesLeaf: []int{1, 2, 3},
		Subsample:      []float64{0.8, 1.0},
	}
}

// Size returns the number of distinct grid points.
func (s ParamSpace) Size() int {
	return len(s.NEstimators) * len(s.LearningRate) * len(s.MaxDepth) * len(s.MinSamplesLeaf) * len(s.Subsample)
}

// At decodes grid point i, 0 <= i < Size(). The seed is left zero.
func (s ParamSpace) At(i int) gbrt.Params {
	var p gbrt.Params
	p.Subsample = s.Subsample[i%len(s.Subsample)]
	i /= len(s.Subsample)
	p.MinSamplesLeaf = s.MinSamplesLeaf[i%len(s.MinSamplesLeaf)]
	i /= len(s.MinSamplesLeaf)
	p.MaxDepth = s.MaxDepth[i%len(s.MaxDepth)]
	i /= len(s.MaxDepth)
	p.LearningRate = s.LearningRate[i%len(s.LearningRate)]
	i /= len(s.LearningRate)
	p.NEstimators = s.NEstimators[i%len(s.NEstimators)]
	return p
}

// Sample draws up to n distinct grid points, without replacement, in draw order.
func (s ParamSpace) Sample(rng *rand.Rand, n int) []gbrt.Params {
	size := s.Size()
	if size == 0 {
		return nil
	}
	if n > size {
		n = size
	}
	perm := rng.Perm(size)
	out := make([]gbrt.Params, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(perm[i])
	}
	return out
}

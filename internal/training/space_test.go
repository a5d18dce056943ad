package training

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSpaceSize(t *testing.T) {
	assert.Equal(t, 4*4*3*3*2, DefaultSpace().Size())
}

func TestSpaceAtCoversGrid(t *testing.T) {
	s := DefaultSpace()
	seen := map[string]bool{}
	for i := 0; i < s.Size(); i++ {
		p := s.At(i)
		assert.NoError(t, p.Validate())
		seen[p.String()] = true
	}
	assert.Len(t, seen, s.Size())
}

func TestSampleWithoutReplacement(t *testing.T) {
	s := DefaultSpace()
	got := s.Sample(rand.New(rand.NewSource(42)), 25)
	assert.Len(t, got, 25)

	seen := map[string]bool{}
	for _, p := range got {
		assert.False(t, seen[p.String()])
		seen[p.String()] = true
	}

	again := s.Sample(rand.New(rand.NewSource(42)), 25)
	assert.Equal(t, got, again)
}

func TestSampleCapsAtGridSize(t *testing.T) {
	s := ParamSpace{
		NEstimators:    []int{10},
		LearningRate:   []float64{0.1},
		MaxDepth:       []int{2, 3},
		MinSamplesLeaf: []int{1},
		Subsample:      []float64{1},
	}
	assert.Len(t, s.Sample(rand.New(rand.NewSource(1)), 25), 2)
	assert.Empty(t, ParamSpace{}.Sample(rand.New(rand.NewSource(1)), 5))
}

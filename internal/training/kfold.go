package training

import (
	"fmt"
	"math/rand"
	"sort"
)

// Fold is one train/test partition of row indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold shuffles n row indices with seed and splits them into k folds. The
// first n%k folds receive one extra test row.
func KFold(n, k int, seed int64) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k must be at least 2, got %d", k)
	}
	if n < k {
		return nil, fmt.Errorf("%w: %d rows, %d folds", ErrTooFewRows, n, k)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([]Fold, 0, k)
	start := 0
	for i := 0; i < k; i++ {
		size := n / k
		if i < n%k {
			size++
		}
		test := append([]int(nil), perm[start:start+size]...)
		train := make([]int, 0, n-size)
		train = append(train, perm[:start]...)
		train = append(train, perm[start+size:]...)
		sort.Ints(test)
		sort.Ints(train)
		folds = append(folds, Fold{Train: train, Test: test})
		start += size
	}
	return folds, nil
}

func selectRows(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}

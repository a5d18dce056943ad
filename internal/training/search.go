package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/roster-wins/internal/gbrt"
)

// SearchConfig controls the randomized hyperparameter search.
type SearchConfig struct {
	NIter       int
	Folds       int
	Seed        int64
	Parallelism int
}

// DefaultSearchConfig returns 25 candidates over 5 shuffled folds.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		NIter:       25,
		Folds:       5,
		Seed:        42,
		Parallelism: runtime.NumCPU(),
	}
}

// Candidate is one scored hyperparameter configuration.
type Candidate struct {
	Index      int         `json:"index"`
	Params     gbrt.Params `json:"params"`
	FoldScores []float64   `json:"fold_scores"`
	MeanScore  float64     `json:"mean_score"`
	Err        error       `json:"-"`
}

// Valid reports whether the candidate produced a finite score
func (c Candidate) Valid() bool {
	return c.Err == nil && !math.IsNaN(c.MeanScore) && !math.IsInf(c.MeanScore, 0)
}

// SearchResult holds every candidate in draw order plus the winner.
type SearchResult struct {
	Best       Candidate
	Candidates []Candidate
}

// Search samples cfg.NIter configurations from space and scores each by mean
// k-fold cross-validated R². Candidates are fitted concurrently; the winner is
// the highest mean score, earliest draw on ties, so the result does not depend
// on scheduling.
func Search(ctx context.Context, x [][]float64, y []float64, space ParamSpace, cfg SearchConfig) (*SearchResult, error) {
	if len(x) == 0 {
		return nil, ErrNoTrainingRows
	}
	folds, err := KFold(len(x), cfg.Folds, cfg.Seed)
	if err != nil {
		return nil, err
	}

	params := space.Sample(rand.New(rand.NewSource(cfg.Seed)), cfg.NIter)
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: empty parameter space", ErrNoValidCandidate)
	}

	candidates := make([]Candidate, len(params))
	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, p := range params {
		i, p := i, p
		p.Seed = cfg.Seed
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = evaluate(gctx, i, p, x, y, folds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search interrupted: %w", err)
	}

	best := -1
	for i, c := range candidates {
		if !c.Valid() {
			continue
		}
		if best < 0 || c.MeanScore > candidates[best].MeanScore {
			best = i
		}
	}
	if best < 0 {
		return nil, ErrNoValidCandidate
	}

	return &SearchResult{Best: candidates[best], Candidates: candidates}, nil
}

func evaluate(ctx context.Context, index int, p gbrt.Params, x [][]float64, y []float64, folds []Fold) Candidate {
	c := Candidate{Index: index, Params: p, FoldScores: make([]float64, 0, len(folds))}
	for _, f := range folds {
		if err := ctx.Err(); err != nil {
			c.Err = err
			c.MeanScore = math.NaN()
			return c
		}
		xTrain, yTrain := selectRows(x, y, f.Train)
		xTest, yTest := selectRows(x, y, f.Test)

		model, err := gbrt.Fit(xTrain, yTrain, p)
		if err != nil {
			c.Err = err
			c.MeanScore = math.NaN()
			return c
		}
		c.FoldScores = append(c.FoldScores, R2(yTest, model.PredictBatch(xTest)))
	}
	c.MeanScore = stat.Mean(c.FoldScores, nil)
	return c
}

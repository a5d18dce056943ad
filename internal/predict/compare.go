package predict

import (
	"fmt"

	"github.com/yourusername/roster-wins/internal/models"
)

// Comparison holds two rosters scored by the same model.
type Comparison struct {
	First  *models.Prediction `json:"first"`
	Second *models.Prediction `json:"second"`
	// Difference is First.Wins minus Second.Wins.
	Difference float64 `json:"difference"`
	// ImportanceScope tells callers whether strengths are model-global, in
	// which case both rosters report the same ranking.
	ImportanceScope string `json:"importance_scope"`
}

// Compare predicts both rosters and reports the top n strengths of each.
func (p *Predictor) Compare(first, second models.RosterRecord, n int) (*Comparison, error) {
	a, err := p.PredictDetailed(first, n)
	if err != nil {
		return nil, fmt.Errorf("first roster: %w", err)
	}
	b, err := p.PredictDetailed(second, n)
	if err != nil {
		return nil, fmt.Errorf("second roster: %w", err)
	}

	scope := a.ImportanceScope
	if b.ImportanceScope != scope {
		scope = ScopeRosterMagnitude
	}
	return &Comparison{
		First:           a,
		Second:          b,
		Difference:      a.Wins - b.Wins,
		ImportanceScope: scope,
	}, nil
}

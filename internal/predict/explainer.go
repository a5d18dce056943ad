package predict

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/features"
	"github.com/yourusername/roster-wins/internal/models"
)

// Importance scopes reported alongside strengths.
const (
	// ScopeModelGlobal means importances come from the trained model and are
	// identical for every roster scored by it.
	ScopeModelGlobal = "model_global"
	// ScopeRosterMagnitude means the model had no importances and the ranking
	// is by the roster's own normalised feature magnitudes.
	ScopeRosterMagnitude = "roster_magnitude"
)

// DefaultStrengths is the number of strengths reported per roster.
const DefaultStrengths = 3

// TopStrengths returns the n highest-ranked features for v under model m.
func TopStrengths(m *artifact.TrainedModel, v features.Vector, n int) []models.Strength {
	strengths, _ := Explain(m, v, n)
	return strengths
}

// Explain ranks m's features by global importance, descending, and returns
// the top n with display labels and the scope of the ranking. When the model
// reports no importance at all, the absolute values of v's reconciled row,
// normalised to sum 1, are ranked instead.
func Explain(m *artifact.TrainedModel, v features.Vector, n int) ([]models.Strength, string) {
	names := m.Features()
	imp := m.Importances()
	scope := ScopeModelGlobal

	if total(imp) <= 0 {
		row, _ := features.Reconcile(v, names)
		imp = magnitudes(row)
		scope = ScopeRosterMagnitude
	}

	order := make([]int, len(names))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return imp[order[a]] > imp[order[b]]
	})

	if n > len(order) {
		n = len(order)
	}
	if n <= 0 {
		return []models.Strength{}, scope
	}

	top := imp[order[0]]
	out := make([]models.Strength, 0, n)
	for _, i := range order[:n] {
		s := models.Strength{
			Feature:    names[i],
			Label:      Label(names[i]),
			Importance: imp[i],
		}
		if top > 0 {
			s.RelativeImpact = imp[i] / top * 100
		}
		out = append(out, s)
	}
	return out, scope
}

// Label renders a feature name as a short display phrase, e.g.
// TEAM_TOP2_PTS becomes "Top 2 Pts" and TEAM_AVG_AST_P36 becomes "Ast Per 36 Min".
// Average and total qualifiers are dropped, so TEAM_AVG_PTS and TEAM_TOTAL_PTS
// both render as "Pts". Use DisplayLabels when labels are shown together.
func Label(name string) string {
	s := strings.TrimPrefix(name, features.Prefix)
	s = strings.ReplaceAll(s, "_", " ")
	s = cases.Title(language.English).String(s)
	s = strings.ReplaceAll(s, "Avg ", "")
	s = strings.ReplaceAll(s, "Total ", "")
	s = strings.ReplaceAll(s, "Top2 ", "Top 2 ")
	s = strings.ReplaceAll(s, "P36", "Per 36 Min")
	return s
}

// DisplayLabels returns the label of each strength, suffixed with the feature
// name wherever two strengths share a label.
func DisplayLabels(strengths []models.Strength) []string {
	seen := make(map[string]int, len(strengths))
	for _, s := range strengths {
		seen[s.Label]++
	}
	out := make([]string, len(strengths))
	for i, s := range strengths {
		out[i] = s.Label
		if seen[s.Label] > 1 {
			out[i] = s.Label + " (" + s.Feature + ")"
		}
	}
	return out
}

func magnitudes(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, v := range row {
		out[i] = math.Abs(v)
	}
	if s := total(out); s > 0 {
		for i := range out {
			out[i] /= s
		}
	}
	return out
}

func total(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

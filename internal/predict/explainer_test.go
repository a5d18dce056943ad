package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/features"
	"github.com/yourusername/roster-wins/internal/models"
)

func TestTopStrengthsDescending(t *testing.T) {
	names := features.Names(false)
	imp := make([]float64, len(names))
	imp[5] = 0.5
	imp[2] = 0.3
	imp[9] = 0.15
	imp[0] = 0.05
	m := newModel(t, fixedRegressor{raw: 1, imp: imp}, names, 0, 1)

	got := TopStrengths(m, features.Build(uniformRoster()), 3)
	require.Len(t, got, 3)
	assert.Equal(t, names[5], got[0].Feature)
	assert.Equal(t, names[2], got[1].Feature)
	assert.Equal(t, names[9], got[2].Feature)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Importance, got[i].Importance)
	}
	assert.Equal(t, 100.0, got[0].RelativeImpact)
	assert.InDelta(t, 60.0, got[1].RelativeImpact, 1e-9)
}

func TestExplainFallsBackToMagnitude(t *testing.T) {
	names := features.Names(false)
	m := newModel(t, fixedRegressor{raw: 1, imp: make([]float64, len(names))}, names, 0, 1)

	got, scope := Explain(m, features.Build(uniformRoster()), 2)
	require.Len(t, got, 2)
	assert.Equal(t, ScopeRosterMagnitude, scope)
	// total minutes (150) dominates, then total points (75)
	assert.Equal(t, "TEAM_TOTAL_MIN", got[0].Feature)
	assert.Equal(t, "TEAM_TOTAL_PTS", got[1].Feature)
}

func TestExplainBounds(t *testing.T) {
	names := []string{"TEAM_AVG_PTS", "TEAM_TOP2_AST"}
	m := newModel(t, fixedRegressor{raw: 1, imp: []float64{0.4, 0.6}}, names, 0, 1)

	got, scope := Explain(m, features.Build(uniformRoster()), 10)
	assert.Len(t, got, 2)
	assert.Equal(t, ScopeModelGlobal, scope)

	assert.Empty(t, TopStrengths(m, features.Build(uniformRoster()), 0))
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"TEAM_TOP2_PTS", "Top 2 Pts"},
		{"TEAM_AVG_AST_P36", "Ast Per 36 Min"},
		{"TEAM_TOTAL_REB", "Reb"},
		{"TEAM_AVG_STL", "Stl"},
		{"TEAM_TOP2_TS", "Top 2 Ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.name))
		})
	}
}

func TestDisplayLabelsDisambiguatesCollisions(t *testing.T) {
	strengths := []models.Strength{
		{Feature: "TEAM_AVG_PTS", Label: Label("TEAM_AVG_PTS")},
		{Feature: "TEAM_TOTAL_PTS", Label: Label("TEAM_TOTAL_PTS")},
		{Feature: "TEAM_TOP2_PTS", Label: Label("TEAM_TOP2_PTS")},
	}

	got := DisplayLabels(strengths)
	assert.Equal(t, []string{"Pts (TEAM_AVG_PTS)", "Pts (TEAM_TOTAL_PTS)", "Top 2 Pts"}, got)
	assert.Empty(t, DisplayLabels(nil))
}

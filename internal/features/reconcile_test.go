package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcileFillsMissingWithZero(t *testing.T) {
	expected := []string{"TEAM_AVG_PTS", "TEAM_TOTAL_AST", "TEAM_TOP2_REB"}
	v := NewVector(map[string]float64{
		"TEAM_AVG_PTS":  12.5,
		"TEAM_TOP2_REB": 20,
	})

	row, report := Reconcile(v, expected)

	assert.Len(t, row, len(expected))
	assert.Equal(t, []float64{12.5, 0.0, 20}, row)
	assert.Equal(t, []string{"TEAM_TOTAL_AST"}, report.Filled)
	assert.Empty(t, report.Dropped)
	assert.True(t, report.Drifted())
	assert.Equal(t, []string{"TEAM_AVG_PTS", "TEAM_TOTAL_AST", "TEAM_TOP2_REB"}, expected, "expected list untouched")
}

func TestReconcileDropsUnexpected(t *testing.T) {
	v := NewVector(map[string]float64{"TEAM_AVG_PTS": 1, "TEAM_AVG_EFG": 0.5})

	row, report := Reconcile(v, []string{"TEAM_AVG_PTS"})

	assert.Equal(t, []float64{1}, row)
	assert.Equal(t, []string{"TEAM_AVG_EFG"}, report.Dropped)
	assert.Empty(t, report.Filled)
}

func TestReconcileExactMatch(t *testing.T) {
	v := Build(uniformRoster())
	row, report := Reconcile(v, Names(false))
	assert.Len(t, row, 27)
	assert.False(t, report.Drifted())
}

func TestMatrix(t *testing.T) {
	a := NewVector(map[string]float64{"x": 1, "y": 2})
	b := NewVector(map[string]float64{"y": 3})
	assert.Equal(t, [][]float64{{1, 2}, {0, 3}}, Matrix([]Vector{a, b}, []string{"x", "y"}))
}

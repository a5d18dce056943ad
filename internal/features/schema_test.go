package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaNames(t *testing.T) {
	base := Names(false)
	// 7 stats x (avg, total, top2) + 6 per-36 rates
	assert.Len(t, base, 27)
	assert.Equal(t, "TEAM_AVG_MIN", base[0])
	assert.Equal(t, "TEAM_TOTAL_MIN", base[1])
	assert.Equal(t, "TEAM_TOP2_MIN", base[2])
	assert.Equal(t, "TEAM_AVG_PTS", base[3])
	assert.Equal(t, "TEAM_AVG_PTS_P36", base[6])

	full := Names(true)
	assert.Len(t, full, 33)
	assert.Equal(t, base, full[:27])
	assert.Equal(t, "TEAM_TOP2_TS", full[32])
}

func TestSchemaNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range Names(true) {
		assert.False(t, seen[n], n)
		seen[n] = true
	}
}

func TestOrderedUnionFollowsSchema(t *testing.T) {
	a := NewVector(map[string]float64{"TEAM_TOTAL_PTS": 1, "CUSTOM_Z": 3})
	b := NewVector(map[string]float64{"TEAM_AVG_MIN": 2, "CUSTOM_A": 4})

	assert.Equal(t,
		[]string{"TEAM_AVG_MIN", "TEAM_TOTAL_PTS", "CUSTOM_A", "CUSTOM_Z"},
		OrderedUnion([]Vector{a, b}),
	)
}

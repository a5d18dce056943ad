package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/models"
)

func uniformRoster() models.RosterRecord {
	var r models.RosterRecord
	for i := range r.Slots {
		r.Slots[i] = &models.PlayerStatLine{
			PlayerID:  int64(i + 1),
			Minutes:   30,
			Points:    15,
			Assists:   5,
			Rebounds:  5,
			Steals:    1,
			Blocks:    1,
			Turnovers: 2,
		}
	}
	return r
}

func TestBuildUniformRoster(t *testing.T) {
	v := Build(uniformRoster())

	tests := []struct {
		name string
		want float64
	}{
		{"TEAM_AVG_PTS", 15},
		{"TEAM_TOTAL_PTS", 75},
		{"TEAM_TOP2_PTS", 30},
		{"TEAM_AVG_PTS_P36", 18},
		{"TEAM_TOTAL_MIN", 150},
		{"TEAM_AVG_TOV_P36", 2.4},
		{"TEAM_TOP2_STL", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.Get(tt.name)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, ok := v.Get("TEAM_AVG_MIN_P36")
	assert.False(t, ok, "minutes has no per-36 rate")
	assert.Equal(t, len(Names(false)), v.Len())
	assert.Empty(t, v.Undefined())
}

func TestBuildIsDeterministic(t *testing.T) {
	r := uniformRoster()
	r.Slots[2].Points = 27.3
	r.Slots[4] = nil

	first := Build(r)
	second := Build(r)
	assert.Equal(t, first.Map(), second.Map())
}

func TestBuildSchemaIndependentOfValues(t *testing.T) {
	a := uniformRoster()
	b := uniformRoster()
	for _, p := range b.Slots {
		p.PlayerID += 100
		p.Points *= 3
		p.Minutes = 0
	}
	assert.Equal(t, Build(a).Names(), Build(b).Names())
}

func TestBuildZeroMinutesProducesNeutralPer36(t *testing.T) {
	var r models.RosterRecord
	for i := range r.Slots {
		r.Slots[i] = &models.PlayerStatLine{Points: 10, Assists: 2}
	}

	var v Vector
	require.NotPanics(t, func() { v = Build(r) })

	for _, f := range Schema(false) {
		if f.Aggregation != AggPer36 {
			continue
		}
		got, ok := v.Get(f.Name())
		require.True(t, ok, f.Name())
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), f.Name())
		assert.Equal(t, NeutralValue, got)
		assert.True(t, v.IsUndefined(f.Name()))
	}
}

func TestBuildAllZeroStats(t *testing.T) {
	var r models.RosterRecord
	for i := range r.Slots {
		r.Slots[i] = &models.PlayerStatLine{}
	}
	v := Build(r)
	for _, name := range v.Names() {
		got, _ := v.Get(name)
		assert.Equal(t, 0.0, got, name)
	}
}

func TestBuildPartialRosterAveragesOverPresentPlayers(t *testing.T) {
	var r models.RosterRecord
	r.Slots[0] = &models.PlayerStatLine{Minutes: 36, Points: 30}
	r.Slots[3] = &models.PlayerStatLine{Minutes: 24, Points: 10}

	v := Build(r)
	avg, _ := v.Get("TEAM_AVG_PTS")
	total, _ := v.Get("TEAM_TOTAL_PTS")
	p36, _ := v.Get("TEAM_AVG_PTS_P36")

	assert.InDelta(t, 20.0, avg, 1e-9)
	assert.InDelta(t, 40.0, total, 1e-9)
	assert.InDelta(t, 40.0/60.0*36.0, p36, 1e-9)
}

func TestBuildEmptyRosterDoesNotPanic(t *testing.T) {
	v := Build(models.RosterRecord{})
	assert.Equal(t, len(Names(false)), v.Len())
	for _, name := range v.Names() {
		got, _ := v.Get(name)
		assert.False(t, math.IsNaN(got), name)
	}
	assert.True(t, v.IsUndefined("TEAM_AVG_PTS"))
}

func TestBuildWithShootingAddsEfficiency(t *testing.T) {
	r := uniformRoster()
	for _, p := range r.Slots {
		p.Shooting = &models.ShootingLine{FGM: 6, FGA: 12, FG3M: 2, FG3A: 5, FTM: 1, FTA: 2}
	}
	v := Build(r)

	assert.Equal(t, len(Names(true)), v.Len())

	efg, ok := v.Get("TEAM_AVG_EFG")
	require.True(t, ok)
	assert.InDelta(t, (6+0.5*2)/12.0, efg, 1e-9)

	ts, ok := v.Get("TEAM_TOP2_TS")
	require.True(t, ok)
	assert.InDelta(t, 2*15/(2*(12+0.44*2)), ts, 1e-9)

	_, ok = v.Get("TEAM_AVG_EFG_P36")
	assert.False(t, ok, "efficiency metrics have no per-36 rate")
}

func TestBuildWithoutShootingOnFirstSlotKeepsBaseSchema(t *testing.T) {
	r := uniformRoster()
	r.Slots[1].Shooting = &models.ShootingLine{FGM: 5, FGA: 10}
	v := Build(r)
	_, ok := v.Get("TEAM_AVG_EFG")
	assert.False(t, ok)
}

func TestEfficiencyZeroDenominators(t *testing.T) {
	assert.Equal(t, 0.0, EffectiveFieldGoalPct(&models.ShootingLine{}))
	assert.Equal(t, 0.0, TrueShootingPct(12, &models.ShootingLine{}))
	assert.Equal(t, 0.0, EffectiveFieldGoalPct(nil))
}

func TestTop2Bounds(t *testing.T) {
	cases := [][]float64{
		{1, 2, 3, 4, 5},
		{5, 5, 5, 5, 5},
		{0, 0, 9, 0, 0},
		{7},
		{3.5, 1.25},
	}
	for _, vals := range cases {
		top := Top2(vals)
		max := vals[0]
		total := 0.0
		for _, v := range vals {
			total += v
			if v > max {
				max = v
			}
		}
		assert.GreaterOrEqual(t, top, max)
		assert.LessOrEqual(t, top, total)
	}
	assert.Equal(t, 0.0, Top2(nil))
	assert.Equal(t, 9.0, Top2([]float64{4, 5, 4}))
}

func TestBuildHugeFiniteStatsStayFinite(t *testing.T) {
	r := uniformRoster()
	for _, p := range r.Slots {
		p.Points = math.MaxFloat64
		p.Minutes = math.MaxFloat64
	}
	v := Build(r)
	for _, name := range v.Names() {
		got, _ := v.Get(name)
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), name)
	}
}

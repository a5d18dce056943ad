package features

import (
	"math"
	"sort"

	"github.com/yourusername/roster-wins/internal/models"
)

// NeutralValue stands in for aggregates whose denominator is zero.
const NeutralValue = 0.0

const per36Minutes = 36.0

// Build computes the team feature vector for a roster. It is pure and
// deterministic: empty slots contribute nothing, and no NaN or infinity is
// ever emitted. Shooting efficiency features are added only when the first
// populated slot carries shooting data.
func Build(roster models.RosterRecord) Vector {
	players := roster.Players()
	v := Vector{
		values:    make(map[string]float64, 40),
		undefined: make(map[string]bool),
	}

	minutes := collect(players, models.StatMinutes)
	totalMinutes := sum(minutes)

	for _, s := range models.BaseStats() {
		m := StatMetric(s)
		vals := collect(players, s)
		aggregate(&v, m, vals)
		if s == models.StatMinutes {
			continue
		}
		name := Feature{Metric: m, Aggregation: AggPer36}.Name()
		if totalMinutes == 0 {
			v.markUndefined(name)
			continue
		}
		put(&v, name, sum(vals)/totalMinutes*per36Minutes)
	}

	if roster.HasShooting() {
		efg, ts := efficiency(players)
		aggregate(&v, MetricEFG, efg)
		aggregate(&v, MetricTS, ts)
	}

	return v
}

// EffectiveFieldGoalPct returns (FGM + 0.5*FG3M) / FGA, or 0 when FGA is zero.
func EffectiveFieldGoalPct(s *models.ShootingLine) float64 {
	if s == nil || s.FGA <= 0 {
		return 0.0
	}
	return (s.FGM + 0.5*s.FG3M) / s.FGA
}

// TrueShootingPct returns PTS / (2*(FGA + 0.44*FTA)), or 0 when the denominator is zero.
func TrueShootingPct(points float64, s *models.ShootingLine) float64 {
	if s == nil {
		return 0.0
	}
	denom := 2 * (s.FGA + 0.44*s.FTA)
	if denom <= 0 {
		return 0.0
	}
	return points / denom
}

// Top2 returns the sum of the two largest values. Only the sum is used, so
// equal values need no tie-break.
func Top2(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) == 1 {
		return sorted[0]
	}
	return sorted[0] + sorted[1]
}

func aggregate(v *Vector, m Metric, vals []float64) {
	avgName := Feature{Metric: m, Aggregation: AggAverage}.Name()
	if len(vals) == 0 {
		v.markUndefined(avgName)
	} else {
		put(v, avgName, sum(vals)/float64(len(vals)))
	}
	put(v, Feature{Metric: m, Aggregation: AggTotal}.Name(), sum(vals))
	put(v, Feature{Metric: m, Aggregation: AggTop2}.Name(), Top2(vals))
}

// put stores value, degrading non-finite results to the neutral value.
func put(v *Vector, name string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.markUndefined(name)
		return
	}
	v.set(name, value)
}

func collect(players []*models.PlayerStatLine, s models.Stat) []float64 {
	vals := make([]float64, 0, len(players))
	for _, p := range players {
		if val, ok := p.Value(s); ok {
			vals = append(vals, val)
		}
	}
	return vals
}

func efficiency(players []*models.PlayerStatLine) (efg, ts []float64) {
	for _, p := range players {
		if !p.HasShooting() {
			continue
		}
		efg = append(efg, EffectiveFieldGoalPct(p.Shooting))
		ts = append(ts, TrueShootingPct(p.Points, p.Shooting))
	}
	return efg, ts
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}

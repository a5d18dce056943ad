// Package features turns a roster of per-game stat lines into the team-level
// feature vector consumed by the win model.
package features

import (
	"fmt"

	"github.com/yourusername/roster-wins/internal/models"
)

// Metric is a per-player quantity that gets aggregated across the roster:
// either a raw box-score stat or a derived shooting-efficiency rate.
type Metric string

// Derived efficiency metrics. They are already rates, so they get no per-36 aggregate.
const (
	MetricEFG Metric = "EFG"
	MetricTS  Metric = "TS"
)

// Aggregation is how per-player values are combined into a team value.
type Aggregation string

const (
	AggAverage Aggregation = "AVG"
	AggTotal   Aggregation = "TOTAL"
	AggTop2    Aggregation = "TOP2"
	AggPer36   Aggregation = "P36"
)

// Prefix marks every emitted feature name.
const Prefix = "TEAM_"

// Feature identifies one column of the team feature vector.
type Feature struct {
	Metric      Metric
	Aggregation Aggregation
}

// Name renders the flat feature name, e.g. TEAM_TOP2_PTS or TEAM_AVG_AST_P36.
func (f Feature) Name() string {
	if f.Aggregation == AggPer36 {
		return fmt.Sprintf("%s%s_%s_%s", Prefix, AggAverage, f.Metric, AggPer36)
	}
	return fmt.Sprintf("%s%s_%s", Prefix, f.Aggregation, f.Metric)
}

// StatMetric converts a box-score stat into a metric.
func StatMetric(s models.Stat) Metric {
	return Metric(s)
}

// DerivedMetrics returns the efficiency metrics computed from shooting stats.
func DerivedMetrics() []Metric {
	return []Metric{MetricEFG, MetricTS}
}

// Schema enumerates every feature in canonical order: for each base stat
// average, total, top-2 and (except minutes) per-36 rate, followed by the
// efficiency metrics when shooting data is present.
func Schema(withShooting bool) []Feature {
	schema := make([]Feature, 0, 40)
	for _, s := range models.BaseStats() {
		m := StatMetric(s)
		schema = append(schema,
			Feature{Metric: m, Aggregation: AggAverage},
			Feature{Metric: m, Aggregation: AggTotal},
			Feature{Metric: m, Aggregation: AggTop2},
		)
		if s != models.StatMinutes {
			schema = append(schema, Feature{Metric: m, Aggregation: AggPer36})
		}
	}
	if withShooting {
		for _, m := range DerivedMetrics() {
			schema = append(schema,
				Feature{Metric: m, Aggregation: AggAverage},
				Feature{Metric: m, Aggregation: AggTotal},
				Feature{Metric: m, Aggregation: AggTop2},
			)
		}
	}
	return schema
}

// Names returns the feature names of Schema(withShooting) in order.
func Names(withShooting bool) []string {
	schema := Schema(withShooting)
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name()
	}
	return names
}

// OrderedUnion returns every feature name present in any vector, ordered by
// the canonical schema. Names outside the schema follow in sorted order.
func OrderedUnion(vectors []Vector) []string {
	seen := make(map[string]bool)
	for _, v := range vectors {
		for _, name := range v.Names() {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for _, name := range Names(true) {
		if seen[name] {
			names = append(names, name)
			delete(seen, name)
		}
	}
	rest := make([]string, 0, len(seen))
	for name := range seen {
		rest = append(rest, name)
	}
	sortStrings(rest)
	return append(names, rest...)
}

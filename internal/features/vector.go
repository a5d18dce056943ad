package features

import (
	"sort"
)

// Vector is a team feature vector: a name to value mapping.
// Downstream stages never rely on position; use Reconcile to get an ordered row.
type Vector struct {
	values    map[string]float64
	undefined map[string]bool
}

// NewVector copies values into a new Vector.
func NewVector(values map[string]float64) Vector {
	v := Vector{
		values:    make(map[string]float64, len(values)),
		undefined: make(map[string]bool),
	}
	for k, val := range values {
		v.values[k] = val
	}
	return v
}

func (v *Vector) set(name string, value float64) {
	if v.values == nil {
		v.values = make(map[string]float64)
	}
	v.values[name] = value
}

func (v *Vector) markUndefined(name string) {
	if v.undefined == nil {
		v.undefined = make(map[string]bool)
	}
	v.undefined[name] = true
	v.set(name, NeutralValue)
}

// Get returns the value for name and whether it is present.
func (v Vector) Get(name string) (float64, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Len returns the number of features in the vector
func (v Vector) Len() int {
	return len(v.values)
}

// Names returns the feature names in sorted order.
func (v Vector) Names() []string {
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}

// IsUndefined reports whether name holds the neutral value because its
// denominator was zero (e.g. a per-36 rate over zero total minutes).
func (v Vector) IsUndefined(name string) bool {
	return v.undefined[name]
}

// Undefined returns the sorted names of undefined features.
func (v Vector) Undefined() []string {
	names := make([]string, 0, len(v.undefined))
	for name := range v.undefined {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}

// Map returns a copy of the underlying values.
func (v Vector) Map() map[string]float64 {
	out := make(map[string]float64, len(v.values))
	for k, val := range v.values {
		out[k] = val
	}
	return out
}

func sortStrings(s []string) {
	sort.Strings(s)
}

package features

// ReconcileReport records how a vector was aligned against a model's feature list.
type ReconcileReport struct {
	Filled  []string `json:"filled,omitempty"`
	Dropped []string `json:"dropped,omitempty"`
}

// Drifted reports whether any feature was filled or dropped
func (r ReconcileReport) Drifted() bool {
	return len(r.Filled) > 0 || len(r.Dropped) > 0
}

// Reconcile re-indexes v against expected, the exact ordered feature list a
// model was trained on. Expected features missing from v are filled with 0.0;
// features in v that the model does not expect are dropped. The returned row
// always has len(expected) entries in expected order.
func Reconcile(v Vector, expected []string) ([]float64, ReconcileReport) {
	var report ReconcileReport
	row := make([]float64, len(expected))
	want := make(map[string]bool, len(expected))

	for i, name := range expected {
		want[name] = true
		val, ok := v.Get(name)
		if !ok {
			report.Filled = append(report.Filled, name)
			row[i] = 0.0
			continue
		}
		row[i] = val
	}

	for _, name := range v.Names() {
		if !want[name] {
			report.Dropped = append(report.Dropped, name)
		}
	}

	return row, report
}

// Matrix reconciles every vector against expected, returning one row per vector.
func Matrix(vectors []Vector, expected []string) [][]float64 {
	rows := make([][]float64, len(vectors))
	for i, v := range vectors {
		rows[i], _ = Reconcile(v, expected)
	}
	return rows
}

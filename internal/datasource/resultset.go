package datasource

import (
	"fmt"
	"strconv"

	"github.com/yourusername/roster-wins/internal/models"
)

// statsResponse is the envelope returned by every stats endpoint.
// Most endpoints fill resultSets; a few older ones use the singular resultSet.
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
	ResultSet  *resultSet  `json:"resultSet"`
}

type resultSet struct {
	Name    string          `json:"name"`
	Headers []string        `json:"headers"`
	RowSet  [][]interface{} `json:"rowSet"`
}

func (r statsResponse) set(name string) (resultSet, error) {
	sets := r.ResultSets
	if r.ResultSet != nil {
		sets = append(sets, *r.ResultSet)
	}
	if len(sets) == 0 {
		return resultSet{}, fmt.Errorf("response has no result sets")
	}
	if name == "" {
		return sets[0], nil
	}
	for _, s := range sets {
		if s.Name == name {
			return s, nil
		}
	}
	return resultSet{}, fmt.Errorf("result set %q not found", name)
}

// table indexes a result set's columns by header name.
type table struct {
	index map[string]int
	rows  [][]interface{}
}

func newTable(rs resultSet) *table {
	index := make(map[string]int, len(rs.Headers))
	for i, h := range rs.Headers {
		index[h] = i
	}
	return &table{index: index, rows: rs.RowSet}
}

func (t *table) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *table) require(cols ...string) error {
	for _, col := range cols {
		if !t.has(col) {
			return fmt.Errorf("missing column %s", col)
		}
	}
	return nil
}

func (t *table) cell(row []interface{}, col string) interface{} {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return nil
	}
	return row[i]
}

// float returns the numeric cell value; null and missing cells read as 0.
func (t *table) float(row []interface{}, col string) float64 {
	switch v := t.cell(row, col).(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (t *table) int64(row []interface{}, col string) int64 {
	return int64(t.float(row, col))
}

func (t *table) str(row []interface{}, col string) string {
	switch v := t.cell(row, col).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// statLine reads the box-score columns shared by the player endpoints.
// Shooting stats are attached only when every shooting column is present.
func (t *table) statLine(row []interface{}) models.PlayerStatLine {
	var line models.PlayerStatLine
	line.GamesPlayed = t.float(row, "GP")
	for _, s := range models.BaseStats() {
		line.Set(s, t.float(row, string(s)))
	}

	shooting := models.ShootingStats()
	for _, s := range shooting {
		if !t.has(string(s)) {
			return line
		}
	}
	for _, s := range shooting {
		line.Set(s, t.float(row, string(s)))
	}
	return line
}

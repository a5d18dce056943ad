// Package dataset reads, writes and assembles the historical training table:
// one row per team-season with the win total and five player slots.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/roster-wins/internal/models"
)

// Leading columns of every training table.
const (
	ColumnTeam   = "TeamName"
	ColumnSeason = "Season"
	ColumnWins   = "Wins"

	fieldName  = "NAME"
	fieldGames = "GP"
)

// Columns returns the table header. Each slot carries its name, games played
// and base stats, followed by shooting stats when withShooting is set.
func Columns(withShooting bool) []string {
	cols := []string{ColumnTeam, ColumnSeason, ColumnWins}
	for slot := 1; slot <= models.RosterSlots; slot++ {
		cols = append(cols, models.SlotColumn(slot, fieldName), models.SlotColumn(slot, fieldGames))
		for _, s := range models.BaseStats() {
			cols = append(cols, models.SlotColumn(slot, string(s)))
		}
		if withShooting {
			for _, s := range models.ShootingStats() {
				cols = append(cols, models.SlotColumn(slot, string(s)))
			}
		}
	}
	return cols
}

// ReadCSV parses a training table. Columns are matched by header name, so
// extra columns and column order do not matter. A slot whose base stat cells
// are all blank is empty; blank cells in a populated slot read as zero.
func ReadCSV(r io.Reader) ([]models.TrainingRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range []string{ColumnTeam, ColumnSeason, ColumnWins} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var rows []models.TrainingRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		row, err := parseRow(index, record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(index map[string]int, record []string) (models.TrainingRow, error) {
	cell := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := models.TrainingRow{
		TeamName: cell(ColumnTeam),
		Season:   cell(ColumnSeason),
	}

	wins, err := strconv.ParseFloat(cell(ColumnWins), 64)
	if err != nil {
		return row, fmt.Errorf("%w: wins %q", ErrMalformedRow, cell(ColumnWins))
	}
	row.Wins = wins

	for slot := 1; slot <= models.RosterSlots; slot++ {
		line, err := parseSlot(slot, cell)
		if err != nil {
			return row, err
		}
		row.Roster.Slots[slot-1] = line
	}
	return row, nil
}

func parseSlot(slot int, cell func(string) string) (*models.PlayerStatLine, error) {
	populated := false
	for _, s := range models.BaseStats() {
		if cell(models.SlotColumn(slot, string(s))) != "" {
			populated = true
			break
		}
	}
	if !populated {
		return nil, nil
	}

	line := &models.PlayerStatLine{PlayerName: cell(models.SlotColumn(slot, fieldName))}

	gp, err := parseCell(cell, models.SlotColumn(slot, fieldGames))
	if err != nil {
		return nil, err
	}
	line.GamesPlayed = gp

	for _, s := range models.BaseStats() {
		v, err := parseCell(cell, models.SlotColumn(slot, string(s)))
		if err != nil {
			return nil, err
		}
		line.Set(s, v)
	}

	shooting := false
	for _, s := range models.ShootingStats() {
		if cell(models.SlotColumn(slot, string(s))) != "" {
			shooting = true
			break
		}
	}
	if shooting {
		for _, s := range models.ShootingStats() {
			v, err := parseCell(cell, models.SlotColumn(slot, string(s)))
			if err != nil {
				return nil, err
			}
			line.Set(s, v)
		}
	}
	return line, nil
}

func parseCell(cell func(string) string, col string) (float64, error) {
	raw := cell(col)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrMalformedRow, col, raw)
	}
	return v, nil
}

// WriteCSV writes rows as a training table. Shooting columns are included
// when any row carries shooting data; empty slots are written as blank cells.
func WriteCSV(w io.Writer, rows []models.TrainingRow) error {
	withShooting := false
	for _, row := range rows {
		for _, p := range row.Roster.Players() {
			if p.HasShooting() {
				withShooting = true
			}
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(Columns(withShooting)); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{row.TeamName, row.Season, formatFloat(row.Wins)}
		for _, p := range row.Roster.Slots {
			record = append(record, slotCells(p, withShooting)...)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func slotCells(p *models.PlayerStatLine, withShooting bool) []string {
	n := 2 + len(models.BaseStats())
	if withShooting {
		n += len(models.ShootingStats())
	}
	cells := make([]string, n)
	if p == nil {
		return cells
	}

	cells[0] = p.PlayerName
	cells[1] = formatFloat(p.GamesPlayed)
	i := 2
	for _, s := range models.BaseStats() {
		v, _ := p.Value(s)
		cells[i] = formatFloat(v)
		i++
	}
	if withShooting && p.HasShooting() {
		for _, s := range models.ShootingStats() {
			v, _ := p.Value(s)
			cells[i] = formatFloat(v)
			i++
		}
	}
	return cells
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadFile reads a training table from path
func ReadFile(path string) ([]models.TrainingRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return rows, nil
}

// WriteFile writes a training table to path, replacing any existing file atomically
func WriteFile(path string, rows []models.TrainingRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".dataset-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, rows); err != nil {
		tmp.Close()
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing dataset: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting dataset permissions: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

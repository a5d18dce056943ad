package dataset

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/models"
)

const sampleTable = `TeamName,Season,Wins,P1_NAME,P1_GP,P1_MIN,P1_PTS,P1_AST,P1_REB,P1_STL,P1_BLK,P1_TOV,P2_NAME,P2_GP,P2_MIN,P2_PTS,P2_AST,P2_REB,P2_STL,P2_BLK,P2_TOV,P3_NAME,P3_GP,P3_MIN,P3_PTS,P3_AST,P3_REB,P3_STL,P3_BLK,P3_TOV,P4_NAME,P4_GP,P4_MIN,P4_PTS,P4_AST,P4_REB,P4_STL,P4_BLK,P4_TOV,P5_NAME,P5_GP,P5_MIN,P5_PTS,P5_AST,P5_REB,P5_STL,P5_BLK,P5_TOV
Boston Celtics,2023-24,64,Jayson Tatum,74,35.7,26.9,4.9,8.1,1.0,0.6,2.5,Jaylen Brown,70,33.5,23.0,3.6,5.5,1.2,0.5,2.4,Derrick White,73,32.6,15.2,5.2,4.2,1.0,1.2,1.5,Jrue Holiday,69,32.8,12.5,4.8,5.4,0.9,0.8,1.8,Kristaps Porzingis,57,29.6,20.1,2.0,7.2,0.7,1.9,1.6
Short Team,2002-03,20,Only One,10,30,10,2,3,1,0,2,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,,
`

// TestReadCSV tests parsing of a full table
func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleTable))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	celtics := rows[0]
	assert.Equal(t, "Boston Celtics", celtics.TeamName)
	assert.Equal(t, "2023-24", celtics.Season)
	assert.Equal(t, 64.0, celtics.Wins)
	assert.Equal(t, 5, celtics.Roster.Populated())
	assert.Equal(t, "Kristaps Porzingis", celtics.Roster.Slots[4].PlayerName)
	assert.Equal(t, 1.9, celtics.Roster.Slots[4].Blocks)
	assert.Equal(t, 57.0, celtics.Roster.Slots[4].GamesPlayed)
	assert.False(t, celtics.Roster.HasShooting())

	short := rows[1]
	assert.Equal(t, 1, short.Roster.Populated())
	assert.Nil(t, short.Roster.Slots[1])
}

// TestReadCSVMissingColumn tests header validation
func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("TeamName,Season\nA,2001-02\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

// TestReadCSVMalformed tests numeric parse errors carry the line number
func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("TeamName,Season,Wins\nA,2001-02,many\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ReadCSV(strings.NewReader("TeamName,Season,Wins,P1_MIN\nA,2001-02,40,lots\n"))
	assert.ErrorIs(t, err, ErrMalformedRow)
}

// TestReadCSVColumnOrder tests that columns are matched by name
func TestReadCSVColumnOrder(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("P1_PTS,Wins,Extra,Season,TeamName,P1_MIN\n12,41,x,2010-11,Reordered,30\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 41.0, rows[0].Wins)
	assert.Equal(t, 12.0, rows[0].Roster.Slots[0].Points)
	assert.Equal(t, 0.0, rows[0].Roster.Slots[0].Assists, "missing column reads as zero")
}

// TestWriteReadRoundTrip tests that written tables read back identically
func TestWriteReadRoundTrip(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleTable))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Columns(false), ","), header)

	again, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, again)
}

// TestWriteCSVShooting tests shooting columns appear only when present
func TestWriteCSVShooting(t *testing.T) {
	line := &models.PlayerStatLine{
		PlayerName: "Shooter",
		Minutes:    30,
		Points:     20,
		Shooting:   &models.ShootingLine{FGM: 7, FGA: 15, FG3M: 3, FG3A: 8, FTM: 3, FTA: 4},
	}
	plain := &models.PlayerStatLine{PlayerName: "Plain", Minutes: 20, Points: 8}
	rows := []models.TrainingRow{
		{TeamName: "A", Season: "2020-21", Wins: 50, Roster: models.RosterRecord{Slots: [models.RosterSlots]*models.PlayerStatLine{line, plain}}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	assert.Contains(t, buf.String(), "P1_FG3A")

	again, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.True(t, again[0].Roster.Slots[0].HasShooting())
	assert.Equal(t, 15.0, again[0].Roster.Slots[0].Shooting.FGA)
	assert.False(t, again[0].Roster.Slots[1].HasShooting())
}

// TestColumns tests header layout
func TestColumns(t *testing.T) {
	base := Columns(false)
	assert.Len(t, base, 3+models.RosterSlots*9)
	assert.Equal(t, []string{"TeamName", "Season", "Wins", "P1_NAME", "P1_GP", "P1_MIN"}, base[:6])
	assert.Len(t, Columns(true), 3+models.RosterSlots*15)
}

// TestWriteFileReadFile tests atomic file persistence
func TestWriteFileReadFile(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(sampleTable))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "data.csv")
	require.NoError(t, WriteFile(path, rows))

	again, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rows, again)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

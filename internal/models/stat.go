package models

// Stat identifies one per-game box-score statistic.
type Stat string

// Base per-game statistics carried by every PlayerStatLine.
const (
	StatMinutes   Stat = "MIN"
	StatPoints    Stat = "PTS"
	StatAssists   Stat = "AST"
	StatRebounds  Stat = "REB"
	StatSteals    Stat = "STL"
	StatBlocks    Stat = "BLK"
	StatTurnovers Stat = "TOV"
)

// Optional shooting statistics.
const (
	StatFieldGoalsMade      Stat = "FGM"
	StatFieldGoalsAttempted Stat = "FGA"
	StatThreesMade          Stat = "FG3M"
	StatThreesAttempted     Stat = "FG3A"
	StatFreeThrowsMade      Stat = "FTM"
	StatFreeThrowsAttempted Stat = "FTA"
)

// RosterSlots is the fixed number of player slots in a roster.
const RosterSlots = 5

// MaxWins is the number of games in a regular season.
const MaxWins = 82

// BaseStats returns the base stat set in schema order.
// Games played is deliberately absent: it produced unstable predictions.
func BaseStats() []Stat {
	return []Stat{
		StatMinutes,
		StatPoints,
		StatAssists,
		StatRebounds,
		StatSteals,
		StatBlocks,
		StatTurnovers,
	}
}

// ShootingStats returns the optional shooting stat set in schema order.
func ShootingStats() []Stat {
	return []Stat{
		StatFieldGoalsMade,
		StatFieldGoalsAttempted,
		StatThreesMade,
		StatThreesAttempted,
		StatFreeThrowsMade,
		StatFreeThrowsAttempted,
	}
}

// IsShooting reports whether s belongs to the shooting stat set.
func (s Stat) IsShooting() bool {
	switch s {
	case StatFieldGoalsMade, StatFieldGoalsAttempted, StatThreesMade,
		StatThreesAttempted, StatFreeThrowsMade, StatFreeThrowsAttempted:
		return true
	default:
		return false
	}
}

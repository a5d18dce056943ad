package models

// TrainingRow is one historical team-season: a roster plus its win total.
// Team and Season are audit metadata and never become features.
type TrainingRow struct {
	TeamName string       `json:"team_name"`
	Season   string       `json:"season"`
	Wins     float64      `json:"wins" validate:"gte=0,lte=82"`
	Roster   RosterRecord `json:"roster"`
}

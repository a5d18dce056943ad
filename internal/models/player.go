package models

// ShootingLine holds per-game shooting volume for one player.
type ShootingLine struct {
	FGM  float64 `json:"fgm" validate:"gte=0"`
	FGA  float64 `json:"fga" validate:"gte=0"`
	FG3M float64 `json:"fg3m" validate:"gte=0"`
	FG3A float64 `json:"fg3a" validate:"gte=0"`
	FTM  float64 `json:"ftm" validate:"gte=0"`
	FTA  float64 `json:"fta" validate:"gte=0"`
}

// PlayerStatLine represents one player's per-game averages for one season
type PlayerStatLine struct {
	PlayerID    int64         `json:"player_id"`
	PlayerName  string        `json:"player_name"`
	TeamID      int64         `json:"team_id,omitempty"`
	Season      string        `json:"season,omitempty"`
	GamesPlayed float64       `json:"gp,omitempty" validate:"gte=0"`
	Minutes     float64       `json:"min" validate:"gte=0"`
	Points      float64       `json:"pts" validate:"gte=0"`
	Assists     float64       `json:"ast" validate:"gte=0"`
	Rebounds    float64       `json:"reb" validate:"gte=0"`
	Steals      float64       `json:"stl" validate:"gte=0"`
	Blocks      float64       `json:"blk" validate:"gte=0"`
	Turnovers   float64       `json:"tov" validate:"gte=0"`
	Shooting    *ShootingLine `json:"shooting,omitempty" validate:"omitempty"`
}

// HasShooting reports whether the shooting stat set is present
func (p *PlayerStatLine) HasShooting() bool {
	return p != nil && p.Shooting != nil
}

// Value returns the value of stat s and whether it is present on this line.
func (p *PlayerStatLine) Value(s Stat) (float64, bool) {
	if p == nil {
		return 0, false
	}

	switch s {
	case StatMinutes:
		return p.Minutes, true
	case StatPoints:
		return p.Points, true
	case StatAssists:
		return p.Assists, true
	case StatRebounds:
		return p.Rebounds, true
	case StatSteals:
		return p.Steals, true
	case StatBlocks:
		return p.Blocks, true
	case StatTurnovers:
		return p.Turnovers, true
	}

	if p.Shooting == nil {
		return 0, false
	}

	switch s {
	case StatFieldGoalsMade:
		return p.Shooting.FGM, true
	case StatFieldGoalsAttempted:
		return p.Shooting.FGA, true
	case StatThreesMade:
		return p.Shooting.FG3M, true
	case StatThreesAttempted:
		return p.Shooting.FG3A, true
	case StatFreeThrowsMade:
		return p.Shooting.FTM, true
	case StatFreeThrowsAttempted:
		return p.Shooting.FTA, true
	}
	return 0, false
}

// Set assigns the value of stat s, allocating the shooting line when needed.
func (p *PlayerStatLine) Set(s Stat, v float64) {
	switch s {
	case StatMinutes:
		p.Minutes = v
	case StatPoints:
		p.Points = v
	case StatAssists:
		p.Assists = v
	case StatRebounds:
		p.Rebounds = v
	case StatSteals:
		p.Steals = v
	case StatBlocks:
		p.Blocks = v
	case StatTurnovers:
		p.Turnovers = v
	default:
		if !s.IsShooting() {
			return
		}
		if p.Shooting == nil {
			p.Shooting = &ShootingLine{}
		}
		switch s {
		case StatFieldGoalsMade:
			p.Shooting.FGM = v
		case StatFieldGoalsAttempted:
			p.Shooting.FGA = v
		case StatThreesMade:
			p.Shooting.FG3M = v
		case StatThreesAttempted:
			p.Shooting.FG3A = v
		case StatFreeThrowsMade:
			p.Shooting.FTM = v
		case StatFreeThrowsAttempted:
			p.Shooting.FTA = v
		}
	}
}

package dataset

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/config"
	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

// AssemblerConfig controls team-season assembly
type AssemblerConfig struct {
	PlayersPerRoster int
	Pacing           time.Duration
	IncludeShooting  bool
}

// DefaultAssemblerConfig returns five players per roster paced one second apart
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		PlayersPerRoster: models.RosterSlots,
		Pacing:           time.Second,
	}
}

// SkippedTeam records a team-season left out of the table
type SkippedTeam struct {
	Team   string `json:"team"`
	Season string `json:"season"`
	Reason string `json:"reason"`
}

// BuildReport summarizes one assembly run
type BuildReport struct {
	Seasons []string      `json:"seasons"`
	Rows    int           `json:"rows"`
	Skipped []SkippedTeam `json:"skipped"`
}

// Assembler turns season tables from a StatsProvider into training rows
type Assembler struct {
	provider datasource.StatsProvider
	cfg      AssemblerConfig
	log      *logger.PipelineLogger
	logger   *logrus.Logger
}

// NewAssembler creates an assembler over provider
func NewAssembler(provider datasource.StatsProvider, cfg AssemblerConfig, log *logrus.Logger) *Assembler {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	if cfg.PlayersPerRoster <= 0 || cfg.PlayersPerRoster > models.RosterSlots {
		cfg.PlayersPerRoster = models.RosterSlots
	}
	return &Assembler{
		provider: provider,
		cfg:      cfg,
		log:      logger.NewPipelineLogger(log),
		logger:   log,
	}
}

// Build fetches every season in order and assembles one row per team.
// Each team's roster is its top players by minutes per game. Teams with no
// player rows are skipped and reported. Requests are paced by cfg.Pacing.
func (a *Assembler) Build(ctx context.Context, seasons []string) ([]models.TrainingRow, *BuildReport, error) {
	report := &BuildReport{Seasons: seasons}
	var rows []models.TrainingRow

	for _, season := range seasons {
		a.logger.WithField("season", season).Info("Processing season")

		teams, err := a.provider.TeamSeasons(ctx, season)
		if err != nil {
			return nil, report, fmt.Errorf("fetching team stats for %s: %w", season, err)
		}
		if err := a.pause(ctx); err != nil {
			return nil, report, err
		}

		players, err := a.provider.PlayerSeasons(ctx, season)
		if err != nil {
			return nil, report, fmt.Errorf("fetching player stats for %s: %w", season, err)
		}
		if err := a.pause(ctx); err != nil {
			return nil, report, err
		}

		byTeam := make(map[int64][]models.PlayerStatLine, len(teams))
		for _, p := range players {
			byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
		}

		for _, team := range teams {
			roster := byTeam[team.TeamID]
			if len(roster) == 0 {
				reason := "no player stats"
				a.log.LogSkippedTeam(team.TeamName, season, reason)
				metrics.RecordTeamSkipped()
				report.Skipped = append(report.Skipped, SkippedTeam{Team: team.TeamName, Season: season, Reason: reason})
				continue
			}
			rows = append(rows, a.row(team, season, roster))
		}
	}

	report.Rows = len(rows)
	return rows, report, nil
}

// row keeps the top players by minutes; ties keep upstream order.
func (a *Assembler) row(team datasource.TeamSeason, season string, players []models.PlayerStatLine) models.TrainingRow {
	sorted := make([]models.PlayerStatLine, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Minutes > sorted[j].Minutes
	})
	if len(sorted) > a.cfg.PlayersPerRoster {
		sorted = sorted[:a.cfg.PlayersPerRoster]
	}

	row := models.TrainingRow{TeamName: team.TeamName, Season: season, Wins: team.Wins}
	for i := range sorted {
		p := sorted[i]
		if !a.cfg.IncludeShooting {
			p.Shooting = nil
		}
		row.Roster.Slots[i] = &p
	}
	return row
}

func (a *Assembler) pause(ctx context.Context) error {
	if a.cfg.Pacing <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.cfg.Pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Seasons lists season labels from start up to but excluding end, e.g.
// Seasons("2001-02", "2004-05") is 2001-02, 2002-03 and 2003-04.
func Seasons(start, end string) ([]string, error) {
	from, err := config.SeasonStartYear(start)
	if err != nil {
		return nil, err
	}
	to, err := config.SeasonStartYear(end)
	if err != nil {
		return nil, err
	}
	if from >= to {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoSeasons, start, end)
	}

	seasons := make([]string, 0, to-from)
	for year := from; year < to; year++ {
		seasons = append(seasons, datasource.SeasonLabel(year))
	}
	return seasons, nil
}

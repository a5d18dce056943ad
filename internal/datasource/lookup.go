package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

const directoryKey = "players:directory"

// playerSource is the subset of StatsClient used for identity lookups.
type playerSource interface {
	AllPlayers(ctx context.Context) ([]PlayerRef, error)
	CareerStats(ctx context.Context, playerID int64) ([]models.PlayerStatLine, error)
}

// StatsLookup implements PlayerLookup over the stats service with a read-through cache
type StatsLookup struct {
	source playerSource
	cache  LookupCache
	ttl    time.Duration
	logger *logrus.Logger
}

// NewStatsLookup creates a lookup; cache may be nil to disable caching
func NewStatsLookup(source playerSource, cache LookupCache, ttl time.Duration, logger *logrus.Logger) *StatsLookup {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &StatsLookup{source: source, cache: cache, ttl: ttl, logger: logger}
}

// FindPlayer returns the first directory entry whose full name contains name, ignoring case.
// Ambiguous names resolve to the first match in directory order.
func (l *StatsLookup) FindPlayer(ctx context.Context, name string) (PlayerRef, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return PlayerRef{}, NewDataSourceError(SourceName, ErrCodeNotFound, "empty player name", nil)
	}

	directory, err := l.directory(ctx)
	if err != nil {
		return PlayerRef{}, err
	}

	for _, p := range directory {
		if strings.Contains(strings.ToLower(p.FullName), query) {
			return p, nil
		}
	}
	return PlayerRef{}, NewDataSourceError(SourceName, ErrCodeNotFound, fmt.Sprintf("no player matches %q", name), nil)
}

// LatestStats returns the player's most recent regular-season per-game line
func (l *StatsLookup) LatestStats(ctx context.Context, player PlayerRef) (*models.PlayerStatLine, error) {
	key := fmt.Sprintf("players:%d:latest", player.ID)

	var cached models.PlayerStatLine
	if l.load(ctx, key, &cached) {
		return &cached, nil
	}

	seasons, err := l.source.CareerStats(ctx, player.ID)
	if err != nil {
		return nil, err
	}

	line, ok := latestSeason(seasons)
	if !ok {
		return nil, NewDataSourceError(SourceName, ErrCodeNotFound, fmt.Sprintf("no regular-season stats for %s", player.FullName), nil)
	}
	line.PlayerName = player.FullName

	l.store(ctx, key, line)
	return line, nil
}

// Resolve finds each name and fetches its latest line, building a roster in the given order.
func (l *StatsLookup) Resolve(ctx context.Context, names []string) (models.RosterRecord, error) {
	if len(names) > models.RosterSlots {
		return models.RosterRecord{}, fmt.Errorf("%w: got %d players", models.ErrRosterTooLarge, len(names))
	}

	lines := make([]*models.PlayerStatLine, 0, len(names))
	for _, name := range names {
		ref, err := l.FindPlayer(ctx, name)
		if err != nil {
			return models.RosterRecord{}, err
		}
		line, err := l.LatestStats(ctx, ref)
		if err != nil {
			return models.RosterRecord{}, err
		}
		lines = append(lines, line)
	}
	return models.NewRoster(lines...)
}

func (l *StatsLookup) directory(ctx context.Context) ([]PlayerRef, error) {
	var players []PlayerRef
	if l.load(ctx, directoryKey, &players) {
		return players, nil
	}

	players, err := l.source.AllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	l.store(ctx, directoryKey, players)
	return players, nil
}

// load reads key into dst; cache failures degrade to a miss.
func (l *StatsLookup) load(ctx context.Context, key string, dst interface{}) bool {
	if l.cache == nil {
		return false
	}
	b, ok, err := l.cache.Get(ctx, key)
	if err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("Lookup cache read failed")
	}
	if err != nil || !ok {
		metrics.RecordLookupCache(false)
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		metrics.RecordLookupCache(false)
		return false
	}
	metrics.RecordLookupCache(true)
	return true
}

func (l *StatsLookup) store(ctx context.Context, key string, v interface{}) {
	if l.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := l.cache.Set(ctx, key, b, l.ttl); err != nil {
		l.logger.WithError(err).WithField("key", key).Warn("Lookup cache write failed")
	}
}

// latestSeason picks the last season in career order, preferring the combined
// row (team id 0) when the player was traded that season.
func latestSeason(seasons []models.PlayerStatLine) (*models.PlayerStatLine, bool) {
	if len(seasons) == 0 {
		return nil, false
	}
	last := seasons[len(seasons)-1]
	for i := len(seasons) - 1; i >= 0 && seasons[i].Season == last.Season; i-- {
		if seasons[i].TeamID == 0 {
			line := seasons[i]
			return &line, true
		}
	}
	return &last, true
}

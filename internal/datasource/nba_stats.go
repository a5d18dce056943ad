package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

const (
	// SourceName labels errors and metrics from the league stats service.
	SourceName = "nba_stats"

	// DefaultBaseURL is the public league stats endpoint root.
	DefaultBaseURL = "https://stats.nba.com/stats"

	endpointTeamStats   = "leaguedashteamstats"
	endpointPlayerStats = "leaguedashplayerstats"
	endpointAllPlayers  = "commonallplayers"
	endpointCareerStats = "playercareerstats"

	regularSeason = "Regular Season"
	perGame       = "PerGame"

	careerRegularSeasonSet = "SeasonTotalsRegularSeason"
)

// StatsClient implements StatsProvider against the league stats service
type StatsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// NewStatsClient creates a new league stats client
func NewStatsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *StatsClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &StatsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *StatsClient) Name() string {
	return SourceName
}

// Close releases idle connections
func (c *StatsClient) Close() error {
	return c.httpClient.Close()
}

// TeamSeasons retrieves per-game team records (id, name, wins) for season
func (c *StatsClient) TeamSeasons(ctx context.Context, season string) ([]TeamSeason, error) {
	t, err := c.fetchTable(ctx, endpointTeamStats, leagueDashParams(season), "")
	if err != nil {
		return nil, err
	}
	if err := t.require("TEAM_ID", "TEAM_NAME", "W"); err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, endpointTeamStats, err)
	}

	teams := make([]TeamSeason, 0, len(t.rows))
	for _, row := range t.rows {
		teams = append(teams, TeamSeason{
			TeamID:   t.int64(row, "TEAM_ID"),
			TeamName: t.str(row, "TEAM_NAME"),
			Season:   season,
			Wins:     t.float(row, "W"),
		})
	}
	return teams, nil
}

// PlayerSeasons retrieves per-game averages for every player who appeared in season
func (c *StatsClient) PlayerSeasons(ctx context.Context, season string) ([]models.PlayerStatLine, error) {
	t, err := c.fetchTable(ctx, endpointPlayerStats, leagueDashParams(season), "")
	if err != nil {
		return nil, err
	}
	if err := t.require("PLAYER_ID", "PLAYER_NAME", "TEAM_ID", "MIN"); err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, endpointPlayerStats, err)
	}

	lines := make([]models.PlayerStatLine, 0, len(t.rows))
	for _, row := range t.rows {
		line := t.statLine(row)
		line.PlayerID = t.int64(row, "PLAYER_ID")
		line.PlayerName = t.str(row, "PLAYER_NAME")
		line.TeamID = t.int64(row, "TEAM_ID")
		line.Season = season
		if err := ValidateStatLine(&line); err != nil {
			c.logger.WithFields(logrus.Fields{
				"player": line.PlayerName,
				"season": season,
				"error":  err.Error(),
			}).Warn("Dropping invalid player stat line")
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// AllPlayers retrieves the full player directory, historical players included
func (c *StatsClient) AllPlayers(ctx context.Context) ([]PlayerRef, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", CurrentSeason(time.Now()))
	params.Set("IsOnlyCurrentSeason", "0")

	t, err := c.fetchTable(ctx, endpointAllPlayers, params, "")
	if err != nil {
		return nil, err
	}
	if err := t.require("PERSON_ID", "DISPLAY_FIRST_LAST"); err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, endpointAllPlayers, err)
	}

	players := make([]PlayerRef, 0, len(t.rows))
	for _, row := range t.rows {
		players = append(players, PlayerRef{
			ID:       t.int64(row, "PERSON_ID"),
			FullName: t.str(row, "DISPLAY_FIRST_LAST"),
			IsActive: t.float(row, "ROSTERSTATUS") == 1,
		})
	}
	return players, nil
}

// CareerStats retrieves a player's per-game regular-season lines, oldest first.
// A traded player has one row per team plus a combined row with team id 0.
func (c *StatsClient) CareerStats(ctx context.Context, playerID int64) ([]models.PlayerStatLine, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("PerMode", perGame)
	params.Set("LeagueID", "00")

	t, err := c.fetchTable(ctx, endpointCareerStats, params, careerRegularSeasonSet)
	if err != nil {
		return nil, err
	}
	if err := t.require("SEASON_ID", "TEAM_ID", "MIN"); err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, endpointCareerStats, err)
	}

	lines := make([]models.PlayerStatLine, 0, len(t.rows))
	for _, row := range t.rows {
		line := t.statLine(row)
		line.PlayerID = playerID
		line.TeamID = t.int64(row, "TEAM_ID")
		line.Season = t.str(row, "SEASON_ID")
		lines = append(lines, line)
	}
	return lines, nil
}

// fetchTable performs one GET and returns the named result set, or the first when name is empty
func (c *StatsClient) fetchTable(ctx context.Context, endpoint string, params url.Values, name string) (*table, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	setStatsHeaders(req)
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", time.Since(start).Seconds())
		return nil, NewDataSourceError(SourceName, ErrCodeNetworkError, "failed to fetch "+endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamRequest(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(SourceName, ErrCodeAuthenticationFailed, "request rejected", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(SourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(SourceName, ErrCodeNotFound, endpoint+" not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(SourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	rs, err := payload.set(name)
	if err != nil {
		return nil, NewDataSourceError(SourceName, ErrCodeInvalidData, endpoint, err)
	}

	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"rows":     len(rs.RowSet),
	}).Debug("Fetched stats table")

	return newTable(rs), nil
}

// setStatsHeaders sets the browser-like headers the stats service expects.
func setStatsHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; roster-wins/1.0)")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

// leagueDashParams builds the query shared by the league dashboard endpoints
func leagueDashParams(season string) url.Values {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("SeasonType", regularSeason)
	params.Set("PerMode", perGame)
	params.Set("MeasureType", "Base")
	params.Set("PaceAdjust", "N")
	params.Set("PlusMinus", "N")
	params.Set("Rank", "N")
	for _, zero := range []string{"LastNGames", "Month", "OpponentTeamID", "Period", "PORound", "TeamID", "TwoWay"} {
		params.Set(zero, "0")
	}
	for _, empty := range []string{"DateFrom", "DateTo", "GameSegment", "Location", "Outcome", "SeasonSegment", "VsConference", "VsDivision", "Conference", "Division"} {
		params.Set(empty, "")
	}
	return params
}

// SeasonLabel formats the season starting in startYear, e.g. 2023 -> "2023-24".
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// CurrentSeason returns the label of the season in progress at now. Seasons tip off in October.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return SeasonLabel(year)
}

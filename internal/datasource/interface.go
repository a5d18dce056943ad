// Package datasource fetches historical team and player statistics from the
// league stats service and resolves player names for prediction.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/roster-wins/internal/models"
)

// StatsProvider defines the interface for fetching season tables from an external provider
type StatsProvider interface {
	// TeamSeasons retrieves every team's regular-season record for season (e.g. "2023-24")
	TeamSeasons(ctx context.Context, season string) ([]TeamSeason, error)

	// PlayerSeasons retrieves per-game averages for every player in season
	PlayerSeasons(ctx context.Context, season string) ([]models.PlayerStatLine, error)

	// Name returns the name of the data source
	Name() string
}

// PlayerLookup resolves a typed name to a player and that player's latest stat line.
type PlayerLookup interface {
	// FindPlayer returns the first player whose full name contains name, ignoring case
	FindPlayer(ctx context.Context, name string) (PlayerRef, error)

	// LatestStats returns the per-game line of the player's most recent regular season
	LatestStats(ctx context.Context, player PlayerRef) (*models.PlayerStatLine, error)
}

// TeamSeason is one team's regular-season record.
type TeamSeason struct {
	TeamID   int64   `json:"team_id"`
	TeamName string  `json:"team_name"`
	Season   string  `json:"season"`
	Wins     float64 `json:"wins"`
}

// PlayerRef identifies a player in the stats service.
type PlayerRef struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap exposes both the underlying error and the sentinel matching Code.
func (e DataSourceError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if sentinel := sentinelForCode(e.Code); sentinel != nil {
		errs = append(errs, sentinel)
	}
	return errs
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Sentinel errors matched with errors.Is
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

func sentinelForCode(code string) error {
	switch code {
	case ErrCodeRateLimitExceeded:
		return ErrRateLimitExceeded
	case ErrCodeAuthenticationFailed:
		return ErrAuthenticationFailed
	case ErrCodeNotFound:
		return ErrNotFound
	case ErrCodeInvalidData:
		return ErrInvalidData
	case ErrCodeNetworkError:
		return ErrNetworkError
	case ErrCodeServerError:
		return ErrServerError
	default:
		return nil
	}
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

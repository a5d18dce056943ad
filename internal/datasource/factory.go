package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/config"
)

// Factory creates stats clients and lookups based on configuration
type Factory struct {
	logger *logrus.Logger
	config *config.Config
}

// NewFactory creates a new data source factory
func NewFactory(cfg *config.Config, logger *logrus.Logger) *Factory {
	return &Factory{
		logger: logger,
		config: cfg,
	}
}

// HTTPClientConfig derives client settings from the datasource section
func (f *Factory) HTTPClientConfig() HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	ds := f.config.DataSource
	if ds.TimeoutSeconds > 0 {
		httpCfg.Timeout = ds.Timeout()
	}
	httpCfg.MaxRetries = ds.MaxRetries
	if ds.RateLimit > 0 {
		httpCfg.RateLimit = ds.RateLimit
	}
	return httpCfg
}

// NewStatsClient creates the league stats client
func (f *Factory) NewStatsClient() *StatsClient {
	httpClient := NewRateLimitedHTTPClient(f.HTTPClientConfig(), f.logger)
	return NewStatsClient(httpClient, f.config.DataSource.BaseURL, f.config.DataSource.APIKey, f.logger)
}

// NewLookupCache returns a Redis cache when cache.redis_url is set, otherwise an in-process cache
func (f *Factory) NewLookupCache() (LookupCache, error) {
	if f.config.Cache.RedisURL == "" {
		return NewMemoryLookupCache(f.lookupTTL()), nil
	}

	cache, err := NewRedisLookupCache(f.config.Cache.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect lookup cache: %w", err)
	}
	if f.logger != nil {
		f.logger.Info("Using Redis lookup cache")
	}
	return cache, nil
}

// NewPlayerLookup wires a lookup over client with the configured cache
func (f *Factory) NewPlayerLookup(client *StatsClient) (*StatsLookup, error) {
	cache, err := f.NewLookupCache()
	if err != nil {
		return nil, err
	}
	return NewStatsLookup(client, cache, f.lookupTTL(), f.logger), nil
}

// lookupTTL keeps player lookups for a day at least; stat lines change at most nightly.
func (f *Factory) lookupTTL() time.Duration {
	ttl := f.config.Cache.TTL()
	if ttl < 24*time.Hour {
		ttl = 24 * time.Hour
	}
	return ttl
}

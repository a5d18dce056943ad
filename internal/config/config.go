// Package config provides configuration management for the roster win predictor.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Training   TrainingConfig   `mapstructure:"training" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"datasource" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ModelConfig locates the trained model artifact
type ModelConfig struct {
	ArtifactPath string `mapstructure:"artifact_path" validate:"required"`
	RegistryName string `mapstructure:"registry_name" validate:"required"`
}

// TrainingConfig represents the hyperparameter search settings
type TrainingConfig struct {
	DataPath    string `mapstructure:"data_path" validate:"required"`
	NIter       int    `mapstructure:"n_iter" validate:"required,gt=0"`
	Folds       int    `mapstructure:"folds" validate:"required,gte=2"`
	Seed        int64  `mapstructure:"seed"`
	Parallelism int    `mapstructure:"parallelism" validate:"gte=0"`
	RetrainCron string `mapstructure:"retrain_cron" validate:"omitempty,cron"`
}

// DataSourceConfig represents the stats service client configuration
type DataSourceConfig struct {
	BaseURL          string  `mapstructure:"base_url" validate:"required,url"`
	APIKey           string  `mapstructure:"api_key"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries       int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit        float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	PacingMillis     int     `mapstructure:"pacing_ms" validate:"gte=0"`
	SeasonStart      string  `mapstructure:"season_start" validate:"required,season"`
	SeasonEnd        string  `mapstructure:"season_end" validate:"required,season"`
	PlayersPerRoster int     `mapstructure:"players_per_roster" validate:"required,min=1,max=5"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// CacheConfig represents prediction and lookup caching
type CacheConfig struct {
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int    `mapstructure:"max_size" validate:"required,gt=0"`
	RedisURL   string `mapstructure:"redis_url"`
}

// ServerConfig represents the listening ports of the serve command
type ServerConfig struct {
	HTTPPort       int      `mapstructure:"http_port" validate:"required,min=1,max=65535"`
	GRPCPort       int      `mapstructure:"grpc_port" validate:"required,min=1,max=65535"`
	HealthPort     int      `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// TracingConfig represents AWS X-Ray settings
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"gte=0,lte=1"`
	DaemonAddr   string  `mapstructure:"daemon_addr" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Timeout returns the stats client request timeout
func (d DataSourceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// Pacing returns the pause between consecutive stats requests
func (d DataSourceConfig) Pacing() time.Duration {
	return time.Duration(d.PacingMillis) * time.Millisecond
}

// TTL returns the cache entry lifetime
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

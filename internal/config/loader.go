package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ROSTER_WINS_APP_LOG_LEVEL.
const EnvPrefix = "ROSTER_WINS"

// DefaultPath is used when no config path is given.
const DefaultPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// app.log_level -> ROSTER_WINS_APP_LOG_LEVEL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "roster-wins")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("model.artifact_path", "models/win_model.json")
	v.SetDefault("model.registry_name", "win_model")

	v.SetDefault("training.data_path", "data/data.csv")
	v.SetDefault("training.n_iter", 25)
	v.SetDefault("training.folds", 5)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.parallelism", 0)
	v.SetDefault("training.retrain_cron", "")

	v.SetDefault("datasource.base_url", "https://stats.nba.com/stats")
	v.SetDefault("datasource.api_key", "")
	v.SetDefault("datasource.timeout_seconds", 60)
	v.SetDefault("datasource.max_retries", 3)
	v.SetDefault("datasource.rate_limit", 1.0)
	v.SetDefault("datasource.pacing_ms", 1000)
	v.SetDefault("datasource.season_start", "2001-02")
	v.SetDefault("datasource.season_end", "2025-26")
	v.SetDefault("datasource.players_per_roster", 5)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "roster_wins")
	v.SetDefault("database.user", "roster_wins")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.redis_url", "")

	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9100)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sampling_rate", 0.05)
	v.SetDefault("tracing.daemon_addr", "127.0.0.1:2000")
}

package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PENNANTCAST"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR_NAME})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. A missing config file is not an error; defaults plus environment
// variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
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
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pennantcast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("stats_api.base_url", "https://statsapi.mlb.com/api/v1")
	v.SetDefault("stats_api.timeout_seconds", 30)
	v.SetDefault("stats_api.requests_per_second", 4)
	v.SetDefault("stats_api.retry_max", 3)
	v.SetDefault("stats_api.cache_ttl_seconds", 900)

	v.SetDefault("rating.k", 20)
	v.SetDefault("rating.hfa", 55)
	v.SetDefault("rating.initial_rating", 1500)
	v.SetDefault("rating.mov_base", 2.2)
	v.SetDefault("rating.mov_cap", 0)

	v.SetDefault("adjustments.fip_weight", 50)
	v.SetDefault("adjustments.fip_prior_ip", 50)
	v.SetDefault("adjustments.rolling_min_starts", 3)
	v.SetDefault("adjustments.bullpen_weight", 15)
	v.SetDefault("adjustments.park_scale", 1.0)
	v.SetDefault("adjustments.travel_penalty", 10)
	v.SetDefault("adjustments.travel_distance_miles", 1000)
	v.SetDefault("adjustments.travel_tz_shift_hours", 2)
	v.SetDefault("adjustments.war_weight", 5)
	v.SetDefault("adjustments.shrinkage", 0.16)
	v.SetDefault("adjustments.use_starter", true)
	v.SetDefault("adjustments.use_bullpen", true)
	v.SetDefault("adjustments.use_park", true)
	v.SetDefault("adjustments.use_travel", true)
	v.SetDefault("adjustments.use_injuries", true)

	v.SetDefault("blend.fade_games", 100)
	v.SetDefault("blend.curve", "linear")

	v.SetDefault("simulation.trials", 10000)
	v.SetDefault("simulation.workers", 0)

	v.SetDefault("playoffs.wildcard_slots", 3)
	v.SetDefault("playoffs.tie_break", "code")

	v.SetDefault("backtest.epsilon", 1e-12)
	v.SetDefault("backtest.sweep_workers", 4)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("schedule.daily_update", "0 6 * * *")
	v.SetDefault("schedule.timezone", "America/New_York")
}

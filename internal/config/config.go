// Package config provides configuration management for the Pennantcast
// projection service.
package config

import (
	"fmt"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/rating"
)

// Config represents the complete application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	StatsAPI    StatsAPIConfig    `mapstructure:"stats_api" validate:"required"`
	Rating      RatingConfig      `mapstructure:"rating" validate:"required"`
	Adjustments AdjustmentsConfig `mapstructure:"adjustments" validate:"required"`
	Blend       BlendConfig       `mapstructure:"blend" validate:"required"`
	Simulation  SimulationConfig  `mapstructure:"simulation" validate:"required"`
	Playoffs    PlayoffsConfig    `mapstructure:"playoffs" validate:"required"`
	Backtest    BacktestConfig    `mapstructure:"backtest" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Schedule    ScheduleConfig    `mapstructure:"schedule" validate:"required"`
	AWS         AWSConfig         `mapstructure:"aws"`
}

// AppConfig represents application-level configuration.
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration.
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"gte=0"`
}

// StatsAPIConfig represents the MLB Stats API client configuration.
type StatsAPIConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// RatingConfig represents the ELO update rule parameters.
type RatingConfig struct {
	K             float64 `mapstructure:"k" validate:"required,gt=0"`
	HFA           float64 `mapstructure:"hfa" validate:"gte=0"`
	InitialRating float64 `mapstructure:"initial_rating" validate:"required,gt=0"`
	MOVBase       float64 `mapstructure:"mov_base" validate:"required,gt=0"`
	MOVCap        float64 `mapstructure:"mov_cap" validate:"gte=0"`
}

// AdjustmentsConfig represents the contextual adjustment weights.
type AdjustmentsConfig struct {
	FIPWeight           float64 `mapstructure:"fip_weight" validate:"gte=0"`
	FIPPriorIP          float64 `mapstructure:"fip_prior_ip" validate:"gte=0"`
	RollingMinStarts    int     `mapstructure:"rolling_min_starts" validate:"gte=0"`
	BullpenWeight       float64 `mapstructure:"bullpen_weight" validate:"gte=0"`
	ParkScale           float64 `mapstructure:"park_scale" validate:"gte=0,lte=1"`
	TravelPenalty       float64 `mapstructure:"travel_penalty" validate:"gte=0"`
	TravelDistanceMiles float64 `mapstructure:"travel_distance_miles" validate:"gte=0"`
	TravelTZShiftHours  int     `mapstructure:"travel_tz_shift_hours" validate:"gte=0"`
	WARWeight           float64 `mapstructure:"war_weight" validate:"gte=0"`
	Shrinkage           float64 `mapstructure:"shrinkage" validate:"gte=0,lt=0.5"`
	UseStarter          bool    `mapstructure:"use_starter"`
	UseBullpen          bool    `mapstructure:"use_bullpen"`
	UsePark             bool    `mapstructure:"use_park"`
	UseTravel           bool    `mapstructure:"use_travel"`
	UseInjuries         bool    `mapstructure:"use_injuries"`
}

// BlendConfig represents preseason blending configuration.
type BlendConfig struct {
	FadeGames int    `mapstructure:"fade_games" validate:"gte=0"`
	Curve     string `mapstructure:"curve" validate:"required,fadecurve"`
}

// SimulationConfig represents Monte Carlo simulation configuration.
type SimulationConfig struct {
	Trials  int   `mapstructure:"trials" validate:"required,gt=0"`
	Workers int   `mapstructure:"workers" validate:"gte=0"`
	Seed    int64 `mapstructure:"seed"`
}

// PlayoffsConfig represents postseason format configuration.
type PlayoffsConfig struct {
	WildcardSlots int    `mapstructure:"wildcard_slots" validate:"required,gt=0"`
	TieBreak      string `mapstructure:"tie_break" validate:"tiebreak"`
}

// BacktestConfig represents calibration replay configuration.
type BacktestConfig struct {
	StartDate    string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	Epsilon      float64 `mapstructure:"epsilon" validate:"required,gt=0"`
	SweepWorkers int     `mapstructure:"sweep_workers" validate:"gte=0"`
	SchedulePath string  `mapstructure:"schedule_path"`
}

// MetricsConfig represents metrics and monitoring configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents the daily pipeline schedule.
type ScheduleConfig struct {
	DailyUpdate string `mapstructure:"daily_update" validate:"required"`
	Timezone    string `mapstructure:"timezone" validate:"required"`
}

// AWSConfig represents the optional AWS Secrets Manager overlay.
type AWSConfig struct {
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// DatabaseDSN returns a PostgreSQL DSN string.
func (c *Config) DatabaseDSN() string {
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

// RatingParams converts the rating section into rating math parameters.
func (c *Config) RatingParams() rating.Params {
	return rating.Params{
		K:             c.Rating.K,
		HFA:           c.Rating.HFA,
		InitialRating: c.Rating.InitialRating,
		MOVBase:       c.Rating.MOVBase,
		MOVCap:        c.Rating.MOVCap,
	}
}

// AdjustParams converts the adjustments section into model weights.
func (c *Config) AdjustParams() adjust.Params {
	return adjust.Params{
		FIPWeight:           c.Adjustments.FIPWeight,
		FIPPriorIP:          c.Adjustments.FIPPriorIP,
		RollingMinStarts:    c.Adjustments.RollingMinStarts,
		BullpenWeight:       c.Adjustments.BullpenWeight,
		ParkScale:           c.Adjustments.ParkScale,
		TravelPenalty:       c.Adjustments.TravelPenalty,
		TravelDistanceMiles: c.Adjustments.TravelDistanceMiles,
		TravelTZShiftHours:  c.Adjustments.TravelTZShiftHours,
		WARWeight:           c.Adjustments.WARWeight,
		Shrinkage:           c.Adjustments.Shrinkage,
		UseStarter:          c.Adjustments.UseStarter,
		UseBullpen:          c.Adjustments.UseBullpen,
		UsePark:             c.Adjustments.UsePark,
		UseTravel:           c.Adjustments.UseTravel,
		UseInjuries:         c.Adjustments.UseInjuries,
	}
}

// FadeCurve returns the validated blend curve.
func (c *Config) FadeCurve() rating.Curve {
	curve, err := rating.ParseCurve(c.Blend.Curve)
	if err != nil {
		return rating.CurveLinear
	}
	return curve
}

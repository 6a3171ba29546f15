// Package backtest replays historical seasons chronologically to score the
// prediction pipeline, and sweeps parameter grids to find the
// best-calibrated configuration.
package backtest

import (
	"fmt"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/rating"
)

// Config is one complete parameterization of the prediction pipeline: rating
// math, contextual adjustments, and preseason blending.
type Config struct {
	Rating rating.Params `json:"rating"`
	Adjust adjust.Params `json:"adjust"`

	// FadeGames and Curve control preseason blending during the replay.
	// Blending only engages when Preseason ratings are supplied.
	FadeGames int                `json:"fade_games"`
	Curve     rating.Curve       `json:"curve"`
	Preseason map[string]float64 `json:"-"`

	// Epsilon clamps probabilities away from 0 and 1 before taking logs.
	Epsilon float64 `json:"epsilon"`
}

// DefaultConfig is the production pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Rating:    rating.LivePreset(),
		Adjust:    adjust.DefaultParams(),
		FadeGames: 100,
		Curve:     rating.CurveLinear,
		Epsilon:   1e-12,
	}
}

// Validate rejects configurations the replay cannot run.
func (c Config) Validate() error {
	if c.Rating.K <= 0 {
		return fmt.Errorf("backtest config: K must be positive, got %f", c.Rating.K)
	}
	if c.Adjust.Shrinkage < 0 || c.Adjust.Shrinkage >= 0.5 {
		return fmt.Errorf("backtest config: shrinkage %f outside [0, 0.5)", c.Adjust.Shrinkage)
	}
	if c.Epsilon <= 0 || c.Epsilon >= 0.5 {
		return fmt.Errorf("backtest config: epsilon %f outside (0, 0.5)", c.Epsilon)
	}
	if _, err := rating.ParseCurve(string(c.Curve)); err != nil {
		return fmt.Errorf("backtest config: %w", err)
	}
	if c.FadeGames < 0 {
		return fmt.Errorf("backtest config: fade games %d negative", c.FadeGames)
	}
	return nil
}

package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

// Result is one scored replay.
type Result struct {
	ID       uuid.UUID     `json:"id"`
	Config   Config        `json:"config"`
	Metrics  Metrics       `json:"metrics"`
	Duration time.Duration `json:"duration"`
}

// Harness replays completed games in date order, predicting each before its
// outcome feeds the rating update. Nothing downstream of a game's date ever
// influences its prediction.
type Harness struct {
	log  logrus.FieldLogger
	opts []adjust.Option
}

// NewHarness builds a replay harness. The adjust options wire data sources
// (starters, parks, geography, injuries) into every replayed configuration.
func NewHarness(log logrus.FieldLogger, opts ...adjust.Option) *Harness {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Harness{log: log, opts: opts}
}

// Run replays games under one configuration and scores the predictions.
// Ratings start fresh: every team enters at the configured initial rating
// the first time it appears. Tied games update ratings but are not scored.
func (h *Harness) Run(ctx context.Context, games []models.Game, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	ordered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Completed() {
			ordered = append(ordered, g)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Date.Before(ordered[b].Date)
	})

	model := adjust.New(cfg.Adjust, cfg.Rating, h.opts...)
	ratings := make(map[string]float64)
	gamesPlayed := make(map[string]int)
	prevVenue := make(map[string]string)
	lookup := func(team string) float64 {
		r, ok := ratings[team]
		if !ok {
			r = cfg.Rating.InitialRating
			ratings[team] = r
		}
		return r
	}

	var scorer Scorer
	start := time.Now()
	for i, g := range ordered {
		if i%512 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		homeR, awayR := lookup(g.HomeTeam), lookup(g.AwayTeam)
		predHome, predAway := homeR, awayR
		if cfg.Preseason != nil && cfg.FadeGames > 0 {
			if pre, ok := cfg.Preseason[g.HomeTeam]; ok {
				predHome = rating.Blend(homeR, pre, gamesPlayed[g.HomeTeam], cfg.FadeGames, cfg.Curve)
			}
			if pre, ok := cfg.Preseason[g.AwayTeam]; ok {
				predAway = rating.Blend(awayR, pre, gamesPlayed[g.AwayTeam], cfg.FadeGames, cfg.Curve)
			}
		}

		p := model.WinProbability(predHome, predAway, adjust.Matchup{
			Date:     g.Date,
			HomeTeam: g.HomeTeam,
			AwayTeam: g.AwayTeam,
			Venue:    g.Venue(),
			Home: adjust.TeamContext{
				StarterID:   g.HomeStarterID,
				StarterName: g.HomeStarterName,
				PrevVenue:   prevVenue[g.HomeTeam],
			},
			Away: adjust.TeamContext{
				StarterID:   g.AwayStarterID,
				StarterName: g.AwayStarterName,
				PrevVenue:   prevVenue[g.AwayTeam],
			},
		})
		if !g.Tied() {
			scorer.Add(p, g.HomeWon())
		}

		newHome, newAway, err := cfg.Rating.ApplyGame(homeR, awayR, *g.HomeScore, *g.AwayScore)
		if err != nil {
			return Result{}, fmt.Errorf("replay %s at %s on %s: %w",
				g.AwayTeam, g.HomeTeam, g.Date.Format("2006-01-02"), err)
		}
		ratings[g.HomeTeam] = newHome
		ratings[g.AwayTeam] = newAway
		gamesPlayed[g.HomeTeam]++
		gamesPlayed[g.AwayTeam]++
		venue := g.Venue()
		prevVenue[g.HomeTeam] = venue
		prevVenue[g.AwayTeam] = venue
	}

	res := Result{
		ID:       uuid.New(),
		Config:   cfg,
		Metrics:  scorer.Metrics(cfg.Epsilon),
		Duration: time.Since(start),
	}
	h.log.WithFields(logrus.Fields{
		"games":    res.Metrics.Games,
		"brier":    res.Metrics.Brier,
		"log_loss": res.Metrics.LogLoss,
		"accuracy": res.Metrics.Accuracy,
		"duration": res.Duration,
	}).Debug("Backtest replay complete")
	return res, nil
}

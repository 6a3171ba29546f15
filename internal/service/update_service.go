// Package service wires the rating, adjustment, simulation, and playoff
// packages into the daily pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/metrics"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

// UpdateService applies completed games to the rating store.
type UpdateService struct {
	store  rating.Store
	params rating.Params
	log    logrus.FieldLogger
}

// NewUpdateService creates an update service over any rating store.
func NewUpdateService(store rating.Store, params rating.Params, log logrus.FieldLogger) *UpdateService {
	return &UpdateService{store: store, params: params, log: log}
}

// ApplyGames replays completed games in date order through the zero-sum
// update rule and persists the resulting ratings. Teams not yet in the store
// enter at the initial rating. Returns the number of games applied.
func (s *UpdateService) ApplyGames(ctx context.Context, games []models.Game) (int, error) {
	ordered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Completed() {
			ordered = append(ordered, g)
		}
	}
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Date.Before(ordered[b].Date)
	})

	applied := 0
	for _, g := range ordered {
		home, err := s.lookup(ctx, g.HomeTeam)
		if err != nil {
			return applied, err
		}
		away, err := s.lookup(ctx, g.AwayTeam)
		if err != nil {
			return applied, err
		}

		newHome, newAway, err := s.params.ApplyGame(home, away, *g.HomeScore, *g.AwayScore)
		if err != nil {
			return applied, fmt.Errorf("update for %s at %s on %s: %w",
				g.AwayTeam, g.HomeTeam, g.Date.Format("2006-01-02"), err)
		}
		if err := s.store.SetRating(ctx, g.HomeTeam, newHome, g.Date); err != nil {
			return applied, err
		}
		if err := s.store.SetRating(ctx, g.AwayTeam, newAway, g.Date); err != nil {
			return applied, err
		}

		metrics.RecordGameRated()
		metrics.UpdateTeamRating(g.HomeTeam, newHome)
		metrics.UpdateTeamRating(g.AwayTeam, newAway)
		applied++
	}

	if applied > 0 {
		metrics.LastUpdateTimestamp.Set(float64(time.Now().Unix()))
	}
	s.log.WithField("games", applied).Info("Applied rating updates")
	return applied, nil
}

// ApplyNewGames replays only games dated after lastApplied. Daily runs feed
// the cumulative season slate; without this cutoff every run would re-apply
// already-counted games and ratings would drift without bound. Pass the zero
// time to replay everything, as a bootstrap over an empty store does.
func (s *UpdateService) ApplyNewGames(ctx context.Context, games []models.Game, lastApplied time.Time) (int, error) {
	fresh := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Date.After(lastApplied) {
			fresh = append(fresh, g)
		}
	}
	return s.ApplyGames(ctx, fresh)
}

func (s *UpdateService) lookup(ctx context.Context, team string) (float64, error) {
	r, err := s.store.Rating(ctx, team)
	if errors.Is(err, models.ErrUnknownTeam) {
		return s.params.InitialRating, nil
	}
	if err != nil {
		return 0, fmt.Errorf("rating lookup for %s: %w", team, err)
	}
	return r, nil
}

package repository

import (
	"context"
	"time"

	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

// DBStore adapts RatingRepository to the rating.Store interface so the
// update pipeline can run against PostgreSQL or an in-memory store
// interchangeably.
type DBStore struct {
	repo RatingRepository
}

// NewDBStore wraps a rating repository as a rating.Store.
func NewDBStore(repo RatingRepository) *DBStore {
	return &DBStore{repo: repo}
}

var _ rating.Store = (*DBStore)(nil)

// Rating implements rating.Store.
func (s *DBStore) Rating(ctx context.Context, team string) (float64, error) {
	tr, err := s.repo.Get(ctx, team)
	if err != nil {
		return 0, err
	}
	return tr.Rating, nil
}

// SetRating implements rating.Store.
func (s *DBStore) SetRating(ctx context.Context, team string, value float64, asOf time.Time) error {
	return s.repo.Upsert(ctx, &models.TeamRating{Team: team, Rating: value, AsOf: asOf})
}

// All implements rating.Store.
func (s *DBStore) All(ctx context.Context) (map[string]float64, error) {
	ratings, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(ratings))
	for _, tr := range ratings {
		out[tr.Team] = tr.Rating
	}
	return out, nil
}

// Package repository provides PostgreSQL persistence for ratings, games,
// pitcher stats, and odds snapshots.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pennantcast/internal/models"
)

// RatingRepository defines team rating persistence with as-of history.
type RatingRepository interface {
	Get(ctx context.Context, team string) (*models.TeamRating, error)
	GetAll(ctx context.Context) ([]*models.TeamRating, error)
	GetAsOf(ctx context.Context, team string, asOf time.Time) (*models.TeamRating, error)
	Upsert(ctx context.Context, rating *models.TeamRating) error
	UpsertBatch(ctx context.Context, ratings []*models.TeamRating) error
}

// GameRepository defines game schedule and result persistence.
type GameRepository interface {
	InsertBatch(ctx context.Context, games []models.Game) error
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Game, error)
	GetCompleted(ctx context.Context, through time.Time) ([]models.Game, error)
	GetRemaining(ctx context.Context, from time.Time) ([]models.Game, error)
	GetLastCompletedDate(ctx context.Context) (time.Time, error)
}

// OddsRepository defines playoff odds snapshot history.
type OddsRepository interface {
	InsertSnapshot(ctx context.Context, snapshot *models.OddsSnapshot) error
	GetLatest(ctx context.Context, league string) (*models.OddsSnapshot, error)
	GetHistory(ctx context.Context, team string, start, end time.Time) ([]*models.OddsSnapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.OddsSnapshot, error)
}

// PitcherRepository defines pitcher quality persistence.
type PitcherRepository interface {
	UpsertBatch(ctx context.Context, season int, pitchers []models.PitcherQuality) error
	GetSeason(ctx context.Context, season int) ([]models.PitcherQuality, error)
}

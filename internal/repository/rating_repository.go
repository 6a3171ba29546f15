package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/models"
)

const errScanRating = "failed to scan team rating: %w"

// PostgresRatingRepository implements RatingRepository for PostgreSQL. Every
// upsert appends to rating history so backtests can query as-of any date.
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository.
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// Get retrieves a team's current rating.
func (r *PostgresRatingRepository) Get(ctx context.Context, team string) (*models.TeamRating, error) {
	query := `
		SELECT team, rating, as_of
		FROM team_ratings
		WHERE team = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	tr := &models.TeamRating{}
	err := r.db.QueryRow(ctx, query, team).Scan(&tr.Team, &tr.Rating, &tr.AsOf)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rating for %s: %w", team, models.ErrUnknownTeam)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return tr, nil
}

// GetAll retrieves the current rating for every team.
func (r *PostgresRatingRepository) GetAll(ctx context.Context) ([]*models.TeamRating, error) {
	query := `
		SELECT DISTINCT ON (team) team, rating, as_of
		FROM team_ratings
		ORDER BY team, as_of DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.TeamRating
	for rows.Next() {
		tr := &models.TeamRating{}
		if err := rows.Scan(&tr.Team, &tr.Rating, &tr.AsOf); err != nil {
			return nil, fmt.Errorf(errScanRating, err)
		}
		ratings = append(ratings, tr)
	}
	return ratings, rows.Err()
}

// GetAsOf retrieves the rating a team held on a given date.
func (r *PostgresRatingRepository) GetAsOf(ctx context.Context, team string, asOf time.Time) (*models.TeamRating, error) {
	query := `
		SELECT team, rating, as_of
		FROM team_ratings
		WHERE team = $1 AND as_of <= $2
		ORDER BY as_of DESC
		LIMIT 1
	`

	tr := &models.TeamRating{}
	err := r.db.QueryRow(ctx, query, team, asOf).Scan(&tr.Team, &tr.Rating, &tr.AsOf)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("rating for %s as of %s: %w", team, asOf.Format("2006-01-02"), models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating as of date: %w", err)
	}
	return tr, nil
}

// Upsert appends a rating observation.
func (r *PostgresRatingRepository) Upsert(ctx context.Context, rating *models.TeamRating) error {
	query := `
		INSERT INTO team_ratings (team, rating, as_of)
		VALUES ($1, $2, $3)
		ON CONFLICT (team, as_of) DO UPDATE SET rating = EXCLUDED.rating
	`

	_, err := r.db.Exec(ctx, query, rating.Team, rating.Rating, rating.AsOf)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// UpsertBatch appends a batch of rating observations in one transaction.
func (r *PostgresRatingRepository) UpsertBatch(ctx context.Context, ratings []*models.TeamRating) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO team_ratings (team, rating, as_of)
			VALUES ($1, $2, $3)
			ON CONFLICT (team, as_of) DO UPDATE SET rating = EXCLUDED.rating
		`
		for _, tr := range ratings {
			if _, err := r.db.Exec(ctx, query, tr.Team, tr.Rating, tr.AsOf); err != nil {
				return fmt.Errorf("failed to upsert rating for %s: %w", tr.Team, err)
			}
		}
		return nil
	})
}

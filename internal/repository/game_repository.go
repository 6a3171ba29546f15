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

const errScanGame = "failed to scan game: %w"

const gameColumns = `
	game_date, home_team, away_team, home_score, away_score,
	home_starter_id, away_starter_id, home_starter_name, away_starter_name,
	venue_team
`

// PostgresGameRepository implements GameRepository for PostgreSQL.
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository.
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// InsertBatch inserts or refreshes a batch of games. Schedule rows are keyed
// by date and matchup; score updates overwrite the scheduled row.
func (r *PostgresGameRepository) InsertBatch(ctx context.Context, games []models.Game) error {
	query := `
		INSERT INTO games (` + gameColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (game_date, home_team, away_team) DO UPDATE SET
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_starter_id = EXCLUDED.home_starter_id,
			away_starter_id = EXCLUDED.away_starter_id,
			home_starter_name = EXCLUDED.home_starter_name,
			away_starter_name = EXCLUDED.away_starter_name,
			venue_team = EXCLUDED.venue_team
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		for _, g := range games {
			_, err := r.db.Exec(ctx, query,
				g.Date, g.HomeTeam, g.AwayTeam, g.HomeScore, g.AwayScore,
				g.HomeStarterID, g.AwayStarterID, g.HomeStarterName, g.AwayStarterName,
				g.VenueTeam,
			)
			if err != nil {
				return fmt.Errorf("failed to insert game %s at %s: %w", g.AwayTeam, g.HomeTeam, err)
			}
		}
		return nil
	})
}

// GetByDateRange retrieves games within a date range, oldest first.
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE game_date >= $1 AND game_date <= $2
		ORDER BY game_date ASC
	`
	return r.queryGames(ctx, query, start, end)
}

// GetCompleted retrieves completed games through a date, oldest first.
func (r *PostgresGameRepository) GetCompleted(ctx context.Context, through time.Time) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE game_date <= $1 AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY game_date ASC
	`
	return r.queryGames(ctx, query, through)
}

// GetRemaining retrieves unplayed games from a date forward.
func (r *PostgresGameRepository) GetRemaining(ctx context.Context, from time.Time) ([]models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE game_date >= $1 AND home_score IS NULL
		ORDER BY game_date ASC
	`
	return r.queryGames(ctx, query, from)
}

// GetLastCompletedDate returns the date of the most recent completed game.
func (r *PostgresGameRepository) GetLastCompletedDate(ctx context.Context) (time.Time, error) {
	query := `
		SELECT game_date FROM games
		WHERE home_score IS NOT NULL
		ORDER BY game_date DESC
		LIMIT 1
	`

	var d time.Time
	err := r.db.QueryRow(ctx, query).Scan(&d)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last completed date: %w", err)
	}
	return d, nil
}

func (r *PostgresGameRepository) queryGames(ctx context.Context, query string, args ...any) ([]models.Game, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		var g models.Game
		err := rows.Scan(
			&g.Date, &g.HomeTeam, &g.AwayTeam, &g.HomeScore, &g.AwayScore,
			&g.HomeStarterID, &g.AwayStarterID, &g.HomeStarterName, &g.AwayStarterName,
			&g.VenueTeam,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

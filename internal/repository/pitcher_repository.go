package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/models"
)

// PostgresPitcherRepository implements PitcherRepository for PostgreSQL.
type PostgresPitcherRepository struct {
	db *database.DB
}

// NewPostgresPitcherRepository creates a new pitcher repository.
func NewPostgresPitcherRepository(db *database.DB) PitcherRepository {
	return &PostgresPitcherRepository{db: db}
}

// UpsertBatch refreshes a season's pitcher quality table.
func (r *PostgresPitcherRepository) UpsertBatch(ctx context.Context, season int, pitchers []models.PitcherQuality) error {
	query := `
		INSERT INTO pitcher_stats (season, pitcher_id, name, fip, innings_pitched)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (season, pitcher_id) DO UPDATE SET
			name = EXCLUDED.name,
			fip = EXCLUDED.fip,
			innings_pitched = EXCLUDED.innings_pitched
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		for _, p := range pitchers {
			if _, err := r.db.Exec(ctx, query,
				season, p.PitcherID, p.Name, p.FIP, p.InningsPitched); err != nil {
				return fmt.Errorf("failed to upsert pitcher %d: %w", p.PitcherID, err)
			}
		}
		return nil
	})
}

// GetSeason retrieves every pitcher line for a season.
func (r *PostgresPitcherRepository) GetSeason(ctx context.Context, season int) ([]models.PitcherQuality, error) {
	query := `
		SELECT pitcher_id, name, fip, innings_pitched
		FROM pitcher_stats
		WHERE season = $1
	`

	rows, err := r.db.Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query pitcher stats: %w", err)
	}
	defer rows.Close()

	var out []models.PitcherQuality
	for rows.Next() {
		var p models.PitcherQuality
		if err := rows.Scan(&p.PitcherID, &p.Name, &p.FIP, &p.InningsPitched); err != nil {
			return nil, fmt.Errorf("failed to scan pitcher stats: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

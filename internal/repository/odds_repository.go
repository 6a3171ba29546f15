package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/models"
)

// PostgresOddsRepository implements OddsRepository for PostgreSQL. The
// per-team odds payload is stored as JSONB.
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository.
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// InsertSnapshot appends one odds snapshot.
func (r *PostgresOddsRepository) InsertSnapshot(ctx context.Context, snapshot *models.OddsSnapshot) error {
	payload, err := json.Marshal(snapshot.Odds)
	if err != nil {
		return fmt.Errorf("failed to marshal odds payload: %w", err)
	}

	query := `
		INSERT INTO odds_snapshots (id, snapshot_date, league, trials, injury_adjusted, odds)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Exec(ctx, query,
		snapshot.ID, snapshot.Date, snapshot.League, snapshot.Trials,
		snapshot.InjuryAdjusted, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds snapshot: %w", err)
	}
	return nil
}

// GetLatest retrieves the most recent snapshot for a league.
func (r *PostgresOddsRepository) GetLatest(ctx context.Context, league string) (*models.OddsSnapshot, error) {
	query := `
		SELECT id, snapshot_date, league, trials, injury_adjusted, odds
		FROM odds_snapshots
		WHERE league = $1
		ORDER BY snapshot_date DESC
		LIMIT 1
	`
	return r.scanSnapshot(r.db.QueryRow(ctx, query, league))
}

// GetByID retrieves one snapshot.
func (r *PostgresOddsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OddsSnapshot, error) {
	query := `
		SELECT id, snapshot_date, league, trials, injury_adjusted, odds
		FROM odds_snapshots
		WHERE id = $1
	`
	return r.scanSnapshot(r.db.QueryRow(ctx, query, id))
}

// GetHistory retrieves snapshots containing a team over a date range, oldest
// first. Feeds the odds-over-time chart.
func (r *PostgresOddsRepository) GetHistory(ctx context.Context, team string, start, end time.Time) ([]*models.OddsSnapshot, error) {
	query := `
		SELECT id, snapshot_date, league, trials, injury_adjusted, odds
		FROM odds_snapshots
		WHERE snapshot_date >= $1 AND snapshot_date <= $2
		  AND odds @> $3
		ORDER BY snapshot_date ASC
	`
	filter, err := json.Marshal([]map[string]string{{"team": team}})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal team filter: %w", err)
	}

	rows, err := r.db.Query(ctx, query, start, end, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds history: %w", err)
	}
	defer rows.Close()

	var out []*models.OddsSnapshot
	for rows.Next() {
		snap, err := scanSnapshotRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresOddsRepository) scanSnapshot(row rowScanner) (*models.OddsSnapshot, error) {
	snap, err := scanSnapshotRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds snapshot: %w", err)
	}
	return snap, nil
}

func scanSnapshotRow(row rowScanner) (*models.OddsSnapshot, error) {
	snap := &models.OddsSnapshot{}
	var payload []byte
	err := row.Scan(&snap.ID, &snap.Date, &snap.League, &snap.Trials, &snap.InjuryAdjusted, &payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &snap.Odds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal odds payload: %w", err)
	}
	return snap, nil
}

package database

import (
	"context"
	"fmt"
)

// schema creates the tables the repositories expect. Plain IF NOT EXISTS
// statements rather than versioned migrations; the schema is small and only
// grows additively.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS team_ratings (
		team TEXT NOT NULL,
		rating DOUBLE PRECISION NOT NULL,
		as_of TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (team, as_of)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_team_ratings_team_as_of
		ON team_ratings (team, as_of DESC)`,
	`CREATE TABLE IF NOT EXISTS games (
		game_date TIMESTAMPTZ NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		home_score INT,
		away_score INT,
		home_starter_id INT,
		away_starter_id INT,
		home_starter_name TEXT NOT NULL DEFAULT '',
		away_starter_name TEXT NOT NULL DEFAULT '',
		venue_team TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (game_date, home_team, away_team)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_date ON games (game_date)`,
	`CREATE TABLE IF NOT EXISTS odds_snapshots (
		id UUID PRIMARY KEY,
		snapshot_date TIMESTAMPTZ NOT NULL,
		league TEXT NOT NULL,
		trials INT NOT NULL,
		injury_adjusted BOOLEAN NOT NULL DEFAULT FALSE,
		odds JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_odds_snapshots_league_date
		ON odds_snapshots (league, snapshot_date DESC)`,
	`CREATE TABLE IF NOT EXISTS pitcher_stats (
		season INT NOT NULL,
		pitcher_id INT NOT NULL,
		name TEXT NOT NULL,
		fip DOUBLE PRECISION NOT NULL,
		innings_pitched DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (season, pitcher_id)
	)`,
}

// EnsureSchema creates any missing tables and indexes.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

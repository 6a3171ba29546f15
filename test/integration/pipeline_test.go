//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pennantcast/internal/config"
	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/logger"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
	"github.com/yourusername/pennantcast/internal/repository"
	"github.com/yourusername/pennantcast/internal/service"
)

// setupDB connects to the database named by the PENNANTCAST_TEST_DB_*
// environment variables, skipping the test when none are set.
func setupDB(t *testing.T) (*database.DB, *repository.Repositories) {
	t.Helper()
	host := os.Getenv("PENNANTCAST_TEST_DB_HOST")
	if host == "" {
		t.Skip("PENNANTCAST_TEST_DB_HOST not set, skipping integration test")
	}

	port := 5432
	if p := os.Getenv("PENNANTCAST_TEST_DB_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		require.NoError(t, err)
		port = parsed
	}

	cfg := config.DatabaseConfig{
		Host:           host,
		Port:           port,
		Name:           envOr("PENNANTCAST_TEST_DB_NAME", "pennantcast_test"),
		User:           envOr("PENNANTCAST_TEST_DB_USER", "postgres"),
		Password:       envOr("PENNANTCAST_TEST_DB_PASSWORD", "postgres"),
		SSLMode:        "disable",
		MaxConnections: 5,
		MinConnections: 1,
	}

	db, err := database.NewDB(context.Background(), &cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(context.Background()))

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err)
	return db, repos
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRatingRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	_, repos := setupDB(t)
	ctx := context.Background()

	early := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Rating.Upsert(ctx, &models.TeamRating{Team: "NYY", Rating: 1510, AsOf: early}))
	require.NoError(t, repos.Rating.Upsert(ctx, &models.TeamRating{Team: "NYY", Rating: 1545, AsOf: late}))

	current, err := repos.Rating.Get(ctx, "NYY")
	require.NoError(t, err)
	assert.InDelta(t, 1545, current.Rating, 1e-9)

	asOf, err := repos.Rating.GetAsOf(ctx, "NYY", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.InDelta(t, 1510, asOf.Rating, 1e-9)
}

func TestGameRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	_, repos := setupDB(t)
	ctx := context.Background()

	hs, as := 5, 3
	games := []models.Game{
		{
			Date:      time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			HomeTeam:  "LAD",
			AwayTeam:  "SF",
			HomeScore: &hs,
			AwayScore: &as,
		},
		{
			Date:     time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
			HomeTeam: "SF",
			AwayTeam: "LAD",
		},
	}
	require.NoError(t, repos.Game.InsertBatch(ctx, games))

	completed, err := repos.Game.GetCompleted(ctx, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, completed)
	for _, g := range completed {
		assert.True(t, g.Completed())
	}

	remaining, err := repos.Game.GetRemaining(ctx, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, g := range remaining {
		assert.False(t, g.Completed())
	}
}

func TestOddsSnapshotHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	_, repos := setupDB(t)
	ctx := context.Background()

	snap := &models.OddsSnapshot{
		ID:     uuid.New(),
		Date:   time.Now().UTC(),
		League: "AL",
		Trials: 1000,
		Odds: []models.PlayoffOdds{
			{Team: "NYY", PlayoffPct: 84.2, DivisionPct: 61.0, WildcardPct: 23.2},
		},
	}
	require.NoError(t, repos.Odds.InsertSnapshot(ctx, snap))

	latest, err := repos.Odds.GetLatest(ctx, "AL")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, latest.ID)

	history, err := repos.Odds.GetHistory(ctx, "NYY",
		time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.NotEmpty(t, history)
}

func TestWithTransactionRollsBackRepositoryWrites(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	db, repos := setupDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	// Writes issued through the ctx passed to fn join the transaction, so
	// the returned error must discard them.
	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repos.Rating.Upsert(txCtx, &models.TeamRating{Team: "ZZZ", Rating: 1500, AsOf: asOf}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = repos.Rating.Get(ctx, "ZZZ")
	assert.ErrorIs(t, err, models.ErrUnknownTeam)

	// The same write commits when fn succeeds.
	require.NoError(t, db.WithTransaction(ctx, func(txCtx context.Context) error {
		return repos.Rating.Upsert(txCtx, &models.TeamRating{Team: "ZZZ", Rating: 1500, AsOf: asOf})
	}))
	committed, err := repos.Rating.Get(ctx, "ZZZ")
	require.NoError(t, err)
	assert.InDelta(t, 1500, committed.Rating, 1e-9)
}

func TestUpdateServiceAgainstDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	_, repos := setupDB(t)
	ctx := context.Background()

	store := repository.NewDBStore(repos.Rating)
	svc := service.NewUpdateService(store, rating.LivePreset(), logger.New("warn"))

	hs, as := 6, 2
	applied, err := svc.ApplyGames(ctx, []models.Game{{
		Date:      time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		HomeTeam:  "HOU",
		AwayTeam:  "SEA",
		HomeScore: &hs,
		AwayScore: &as,
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Greater(t, all["HOU"], all["SEA"])
}

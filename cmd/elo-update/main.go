// Package main provides the rating update CLI. It replays completed games
// into the rating store, either from the Stats API or a historical CSV.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/config"
	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/datasource"
	"github.com/yourusername/pennantcast/internal/logger"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
	"github.com/yourusername/pennantcast/internal/repository"
	"github.com/yourusername/pennantcast/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		csvPath    = flag.String("csv", "", "Replay games from a CSV file instead of the Stats API")
		season     = flag.Int("season", time.Now().Year(), "Season to fetch from the Stats API")
		historical = flag.Bool("historical", false, "Use the low-K historical preset, for multi-season bootstraps")
		dryRun     = flag.Bool("dry-run", false, "Compute ratings in memory without touching the database")
	)
	flag.Parse()

	bootLog := logrus.New()
	bootLog.SetFormatter(&logrus.JSONFormatter{})
	ctx := context.Background()

	cfg := loadConfig(ctx, *configPath, bootLog)
	log := logger.New(cfg.App.LogLevel)

	games := loadGames(ctx, cfg, *csvPath, *season, log)

	params := cfg.RatingParams()
	if *historical {
		params = rating.HistoricalPreset()
	}

	store, repos, cleanup := buildStore(ctx, cfg, *dryRun, log)
	defer cleanup()

	// The last completed date already in the database marks the applied
	// cutoff, read before this run's games are persisted. Without it every
	// invocation would re-apply the whole season-to-date slate.
	lastApplied := time.Time{}
	if repos != nil {
		d, err := repos.Game.GetLastCompletedDate(ctx)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			log.Fatalf("Failed to read last completed date: %v", err)
		}
		if err == nil {
			lastApplied = d
		}
		if err := repos.Game.InsertBatch(ctx, games); err != nil {
			log.Fatalf("Failed to persist games: %v", err)
		}
	}

	svc := service.NewUpdateService(store, params, log)
	applied, err := svc.ApplyNewGames(ctx, games, lastApplied)
	if err != nil {
		log.Fatalf("Rating update failed after %d games: %v", applied, err)
	}

	printRatings(ctx, store, log)
}

func loadConfig(ctx context.Context, path string, log *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func loadGames(ctx context.Context, cfg *config.Config, csvPath string, season int, log logrus.FieldLogger) []models.Game {
	if csvPath != "" {
		games, err := datasource.LoadGamesCSV(csvPath)
		if err != nil {
			log.Fatalf("Failed to read schedule CSV: %v", err)
		}
		log.WithFields(logrus.Fields{"path": csvPath, "games": len(games)}).Info("Loaded games from CSV")
		return games
	}

	httpClient := datasource.NewRateLimitedHTTPClient(statsHTTPConfig(cfg), log)
	defer httpClient.Close()

	client := datasource.NewStatsAPIClient(
		cfg.StatsAPI.BaseURL,
		httpClient,
		time.Duration(cfg.StatsAPI.CacheTTLSeconds)*time.Second,
		log,
	)
	games, err := client.Schedule(ctx, season)
	if err != nil {
		log.Fatalf("Failed to fetch %d schedule: %v", season, err)
	}
	log.WithFields(logrus.Fields{"season": season, "games": len(games)}).Info("Fetched schedule")
	return games
}

func statsHTTPConfig(cfg *config.Config) datasource.HTTPClientConfig {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.StatsAPI.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.StatsAPI.RetryMax
	httpCfg.RateLimit = cfg.StatsAPI.RequestsPerSecond
	return httpCfg
}

func buildStore(ctx context.Context, cfg *config.Config, dryRun bool, log logrus.FieldLogger) (rating.Store, *repository.Repositories, func()) {
	if dryRun {
		log.Info("Dry run: ratings held in memory only")
		return rating.NewMemoryStore(nil), nil, func() {}
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	return repository.NewDBStore(repos.Rating), repos, db.Close
}

func printRatings(ctx context.Context, store rating.Store, log logrus.FieldLogger) {
	all, err := store.All(ctx)
	if err != nil {
		log.Fatalf("Failed to read back ratings: %v", err)
	}

	teams := make([]string, 0, len(all))
	for team := range all {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(a, b int) bool { return all[teams[a]] > all[teams[b]] })

	fmt.Println("\nTeam ratings:")
	for i, team := range teams {
		fmt.Printf("%3d. %-4s %7.1f\n", i+1, team, all[team])
	}
}

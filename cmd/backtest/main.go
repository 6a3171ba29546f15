// Package main provides the calibration backtest CLI. It replays historical
// seasons from CSV through the prediction pipeline and reports Brier score,
// log loss, accuracy, and decile calibration, with an optional parameter
// sweep.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/backtest"
	"github.com/yourusername/pennantcast/internal/config"
	"github.com/yourusername/pennantcast/internal/datasource"
	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/logger"
	"github.com/yourusername/pennantcast/internal/metrics"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		schedule   = flag.String("schedule", "", "Path to results CSV (overrides config)")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		sweep      = flag.Bool("sweep", false, "Sweep the parameter grid instead of a single run")
		workers    = flag.Int("workers", 0, "Sweep worker count (0 uses the config value)")
		season     = flag.Int("season", time.Now().Year(), "Season for park factors and pitching stats")
		historical = flag.Bool("historical", false, "Use the low-K historical preset")
		cFIP       = flag.Float64("cfip", 3.47, "League FIP constant")
		noPitching = flag.Bool("no-pitching", false, "Skip fetching pitching stats; starter and bullpen adjustments replay as zero")
	)
	flag.Parse()

	log := newLogger()
	ctx := context.Background()

	cfg := loadConfig(ctx, *configPath, log)
	appLog := logger.New(cfg.App.LogLevel)

	games := loadGames(cfg, *schedule, *startDate, *endDate, appLog)
	base := buildBaseConfig(cfg, *historical)

	// The CSV carries starter names, so the replay resolves FIP by
	// normalized name against the season table.
	opts := []adjust.Option{
		adjust.WithParks(league.Parks{Season: *season}),
		adjust.WithGeography(league.Geo{}),
	}
	if !*noPitching {
		table := fetchFIPTable(ctx, cfg, *season, *cFIP, appLog)
		opts = append(opts, adjust.WithStarters(table), adjust.WithBullpens(table))
	}
	harness := backtest.NewHarness(appLog, opts...)

	if *sweep {
		runSweep(ctx, harness, games, base, cfg, *workers, appLog)
		return
	}
	runSingle(ctx, harness, games, base, appLog)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
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

func loadGames(cfg *config.Config, schedulePath, startOverride, endOverride string, log logrus.FieldLogger) []models.Game {
	path := schedulePath
	if path == "" {
		path = cfg.Backtest.SchedulePath
	}
	if path == "" {
		log.Fatal("No schedule CSV: set backtest.schedule_path or pass -schedule")
	}

	games, err := datasource.LoadGamesCSV(path)
	if err != nil {
		log.Fatalf("Failed to read schedule CSV: %v", err)
	}

	start := parseDate(cfg.Backtest.StartDate, startOverride, log)
	end := parseDate(cfg.Backtest.EndDate, endOverride, log)

	filtered := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Date.Before(start) || g.Date.After(end) {
			continue
		}
		filtered = append(filtered, g)
	}
	log.WithFields(logrus.Fields{
		"path":  path,
		"games": len(filtered),
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
	}).Info("Loaded replay window")
	return filtered
}

func parseDate(configured, override string, log logrus.FieldLogger) time.Time {
	value := configured
	if override != "" {
		value = override
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		log.Fatalf("Invalid date %q: %v", value, err)
	}
	return parsed
}

func fetchFIPTable(ctx context.Context, cfg *config.Config, season int, cFIP float64, log logrus.FieldLogger) *datasource.FIPTable {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.StatsAPI.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.StatsAPI.RetryMax
	httpCfg.RateLimit = cfg.StatsAPI.RequestsPerSecond
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, log)
	defer httpClient.Close()

	client := datasource.NewStatsAPIClient(
		cfg.StatsAPI.BaseURL,
		httpClient,
		time.Duration(cfg.StatsAPI.CacheTTLSeconds)*time.Second,
		log,
	)
	lines, err := client.PitchingStats(ctx, season)
	if err != nil {
		log.Fatalf("Failed to fetch %d pitching stats (pass -no-pitching to replay without them): %v", season, err)
	}
	log.WithFields(logrus.Fields{"season": season, "pitchers": len(lines)}).Info("Built FIP table")
	return datasource.BuildFIPTable(lines, cFIP)
}

func buildBaseConfig(cfg *config.Config, historical bool) backtest.Config {
	base := backtest.DefaultConfig()
	base.Rating = cfg.RatingParams()
	if historical {
		base.Rating = rating.HistoricalPreset()
	}
	base.Adjust = cfg.AdjustParams()
	base.FadeGames = cfg.Blend.FadeGames
	base.Curve = cfg.FadeCurve()
	base.Epsilon = cfg.Backtest.Epsilon
	return base
}

func runSingle(ctx context.Context, harness *backtest.Harness, games []models.Game, base backtest.Config, log logrus.FieldLogger) {
	start := time.Now()
	result, err := harness.Run(ctx, games, base)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}
	metrics.RecordBacktest(time.Since(start).Seconds())
	printResult(result)
}

// defaultGrid covers the parameter neighborhoods worth searching. The base
// config supplies every dimension the grid leaves empty.
func defaultGrid() backtest.Grid {
	return backtest.Grid{
		FIPWeights: []float64{30, 50, 70},
		ParkScales: []float64{0.5, 1.0},
		Shrinkages: []float64{0.10, 0.16, 0.22},
		FadeGames:  []int{60, 100, 140},
		Curves:     rating.Curves,
	}
}

func runSweep(ctx context.Context, harness *backtest.Harness, games []models.Game, base backtest.Config, cfg *config.Config, workers int, log logrus.FieldLogger) {
	if workers <= 0 {
		workers = cfg.Backtest.SweepWorkers
	}

	start := time.Now()
	result, err := harness.Sweep(ctx, games, base, defaultGrid(), workers)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	metrics.RecordBacktest(time.Since(start).Seconds())
	for range result.Results {
		metrics.RecordSweepConfig()
	}
	for _, failure := range result.Failures {
		metrics.RecordSweepFailure()
		log.WithError(failure.Err).Warn("Sweep configuration failed")
	}

	fmt.Printf("\nSwept %d configurations (%d failed) in %s\n",
		len(result.Results)+len(result.Failures), len(result.Failures), time.Since(start).Round(time.Second))

	if result.Best == nil {
		log.Fatal("Sweep produced no scored configurations")
	}
	best := *result.Best
	fmt.Printf("\nBest configuration:\n")
	fmt.Printf("  fip_weight=%.0f bullpen_weight=%.0f park_scale=%.2f shrinkage=%.2f fade_games=%d curve=%s mov_cap=%.1f\n",
		best.Config.Adjust.FIPWeight,
		best.Config.Adjust.BullpenWeight,
		best.Config.Adjust.ParkScale,
		best.Config.Adjust.Shrinkage,
		best.Config.FadeGames,
		best.Config.Curve,
		best.Config.Rating.MOVCap,
	)
	printResult(best)
}

func printResult(result backtest.Result) {
	m := result.Metrics
	fmt.Printf("\nScored %d games in %s\n", m.Games, result.Duration.Round(time.Millisecond))
	fmt.Printf("  Brier score: %.4f\n", m.Brier)
	fmt.Printf("  Log loss:    %.4f\n", m.LogLoss)
	fmt.Printf("  Accuracy:    %.1f%%\n", m.Accuracy*100)

	fmt.Println("\nCalibration:")
	fmt.Printf("%-12s %7s %10s %9s\n", "Bucket", "Games", "Predicted", "Observed")
	for _, b := range m.Calibration {
		if b.Count == 0 {
			continue
		}
		fmt.Printf("[%.1f, %.1f) %8d %9.3f %9.3f\n", b.Low, b.High, b.Count, b.MeanPredicted, b.ObservedRate)
	}
}

// Package main provides the projection CLI: season simulation, playoff odds,
// next-game expectancy, and the scheduled daily pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/config"
	"github.com/yourusername/pennantcast/internal/database"
	"github.com/yourusername/pennantcast/internal/datasource"
	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/logger"
	"github.com/yourusername/pennantcast/internal/metrics"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/playoffs"
	"github.com/yourusername/pennantcast/internal/repository"
	"github.com/yourusername/pennantcast/internal/scheduler"
	"github.com/yourusername/pennantcast/internal/service"
	"github.com/yourusername/pennantcast/internal/simulate"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile    string
	season        int
	injuriesPath  string
	preseasonDate string
	cFIP          float64

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVar(&season, "season", time.Now().Year(), "Season to project")
	rootCmd.PersistentFlags().StringVar(&injuriesPath, "injuries", "", "Path to injury list JSON (optional)")
	rootCmd.PersistentFlags().StringVar(&preseasonDate, "preseason-date", "", "As-of date (YYYY-MM-DD) for preseason baseline ratings")
	rootCmd.PersistentFlags().Float64Var(&cFIP, "cfip", 3.47, "League FIP constant")

	rootCmd.AddCommand(runCmd, nextGamesCmd, historyCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:     "projections",
	Short:   "Simulate the remaining season and compute playoff odds",
	Version: fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd.Context()); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return err
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.New(cfg.App.LogLevel)

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

// pipeline bundles the per-run dependencies built from live data.
type pipeline struct {
	client     *datasource.StatsAPIClient
	httpClient *datasource.RateLimitedHTTPClient
	model      *adjust.Model
	projection *service.ProjectionService
	update     *service.UpdateService
}

func buildPipeline(ctx context.Context) (*pipeline, error) {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.StatsAPI.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.StatsAPI.RetryMax
	httpCfg.RateLimit = cfg.StatsAPI.RequestsPerSecond
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, appLog)

	client := datasource.NewStatsAPIClient(
		cfg.StatsAPI.BaseURL,
		httpClient,
		time.Duration(cfg.StatsAPI.CacheTTLSeconds)*time.Second,
		appLog,
	)

	lines, err := client.PitchingStats(ctx, season)
	if err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("fetch pitching stats: %w", err)
	}
	table := datasource.BuildFIPTable(lines, cFIP)
	if err := repos.Pitcher.UpsertBatch(ctx, season, table.Pitchers()); err != nil {
		appLog.WithError(err).Warn("Failed to persist pitcher stats")
	}

	injuries, err := datasource.LoadInjuryList(injuriesPath)
	if err != nil {
		httpClient.Close()
		return nil, fmt.Errorf("load injury list: %w", err)
	}

	model := adjust.New(cfg.AdjustParams(), cfg.RatingParams(),
		adjust.WithStarters(table),
		adjust.WithBullpens(table),
		adjust.WithParks(league.Parks{Season: season}),
		adjust.WithGeography(league.Geo{}),
		adjust.WithInjuries(injuries),
	)

	store := repository.NewDBStore(repos.Rating)
	return &pipeline{
		client:     client,
		httpClient: httpClient,
		model:      model,
		projection: service.NewProjectionService(store, model, repos.Odds, appLog),
		update:     service.NewUpdateService(store, cfg.RatingParams(), appLog),
	}, nil
}

func (p *pipeline) Close() {
	p.httpClient.Close()
}

// refresh fetches the season schedule, applies newly completed games to the
// ratings, and splits the slate into completed and remaining. The last
// completed date already in the database marks the applied cutoff; it is read
// before the fresh slate is persisted so the same games are never counted
// twice across daily runs.
func (p *pipeline) refresh(ctx context.Context) (completed, remaining []models.Game, err error) {
	games, err := p.client.Schedule(ctx, season)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch schedule: %w", err)
	}

	lastApplied, err := lastAppliedDate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := repos.Game.InsertBatch(ctx, games); err != nil {
		appLog.WithError(err).Warn("Failed to persist schedule")
	}

	for _, g := range games {
		if g.Completed() {
			completed = append(completed, g)
		} else {
			remaining = append(remaining, g)
		}
	}

	if _, err := p.update.ApplyNewGames(ctx, completed, lastApplied); err != nil {
		return nil, nil, fmt.Errorf("apply rating updates: %w", err)
	}
	return completed, remaining, nil
}

func lastAppliedDate(ctx context.Context) (time.Time, error) {
	d, err := repos.Game.GetLastCompletedDate(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last completed date: %w", err)
	}
	return d, nil
}

func projectionParams(ctx context.Context) (service.ProjectionParams, error) {
	params := service.ProjectionParams{
		Simulation: simulate.Config{
			Trials:  cfg.Simulation.Trials,
			Workers: cfg.Simulation.Workers,
			Seed:    cfg.Simulation.Seed,
		},
		WildcardSlots:  cfg.Playoffs.WildcardSlots,
		FadeGames:      cfg.Blend.FadeGames,
		Curve:          cfg.FadeCurve(),
		InjuryAdjusted: injuriesPath != "",
	}

	tieBreak, err := playoffs.ParseTieBreak(cfg.Playoffs.TieBreak)
	if err != nil {
		return params, err
	}
	params.Odds = playoffs.Config{TieBreak: tieBreak, Seed: cfg.Simulation.Seed}

	if preseasonDate != "" {
		asOf, err := time.Parse("2006-01-02", preseasonDate)
		if err != nil {
			return params, fmt.Errorf("invalid preseason date: %w", err)
		}
		preseason, err := preseasonRatings(ctx, asOf)
		if err != nil {
			return params, err
		}
		params.Preseason = preseason
	}
	return params, nil
}

// preseasonRatings loads each team's rating as of the given date, typically
// the end of the prior season. Teams with no history are skipped and fall
// back to their current rating.
func preseasonRatings(ctx context.Context, asOf time.Time) (map[string]float64, error) {
	out := make(map[string]float64, 30)
	for _, team := range league.Teams() {
		r, err := repos.Rating.GetAsOf(ctx, team, asOf)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("preseason rating for %s: %w", team, err)
		}
		out[team] = r.Rating
	}
	return out, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full projection: update ratings, simulate, persist odds",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := buildPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := runProjection(ctx, p)
		if err != nil {
			return err
		}
		printStandings(report)
		printProjections(report)
		printOdds(report)
		return nil
	},
}

var nextGamesCmd = &cobra.Command{
	Use:   "next-games",
	Short: "Print win expectancy for each team's next game",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := buildPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		report, err := runProjection(ctx, p)
		if err != nil {
			return err
		}

		fmt.Println("\nNext games:")
		for _, ng := range report.NextGames {
			venue := "@"
			if ng.Home {
				venue = "vs"
			}
			fmt.Printf("%-4s %s %-4s %s  win %5.1f%% (raw %5.1f%%)\n",
				ng.Team, venue, ng.Opponent, ng.Date.Format("2006-01-02"),
				ng.WinProbability*100, ng.RawProbability*100)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [team]",
	Short: "Print a team's playoff odds over time",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		team := league.Normalize(args[0])
		if !league.Known(team) {
			return fmt.Errorf("unknown team %q", args[0])
		}

		days, _ := cmd.Flags().GetInt("days")
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -days)

		store := repository.NewDBStore(repos.Rating)
		svc := service.NewProjectionService(store, adjust.New(cfg.AdjustParams(), cfg.RatingParams()), repos.Odds, appLog)
		snaps, err := svc.History(ctx, team, start, end)
		if err != nil {
			return err
		}

		fmt.Printf("\nPlayoff odds history for %s:\n", team)
		for _, snap := range snaps {
			for _, odds := range snap.Odds {
				if odds.Team == team {
					fmt.Printf("%s  playoffs %5.1f%%  division %5.1f%%  wildcard %5.1f%%\n",
						snap.Date.Format("2006-01-02"), odds.PlayoffPct, odds.DivisionPct, odds.WildcardPct)
				}
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily update and projection pipeline on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sched, err := scheduler.New(cfg.Schedule, appLog)
		if err != nil {
			return err
		}
		err = sched.Schedule(cfg.Schedule.DailyUpdate, "daily-projection", func(jobCtx context.Context) error {
			p, err := buildPipeline(jobCtx)
			if err != nil {
				return err
			}
			defer p.Close()
			_, err = runProjection(jobCtx, p)
			return err
		})
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()

		if cfg.Metrics.Enabled {
			startMetricsServer()
		}

		appLog.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("Pipeline scheduled")

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			appLog.WithField("signal", sig.String()).Info("Shutting down")
		case <-ctx.Done():
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("days", 30, "History window in days")
}

func runProjection(ctx context.Context, p *pipeline) (*service.Report, error) {
	completed, remaining, err := p.refresh(ctx)
	if err != nil {
		return nil, err
	}
	params, err := projectionParams(ctx)
	if err != nil {
		return nil, err
	}
	return p.projection.Project(ctx, completed, remaining, params)
}

func startMetricsServer() {
	metrics.InitRegistry()
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	go func() {
		appLog.WithField("addr", addr).Info("Metrics server listening")
		if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.WithError(err).Error("Metrics server failed")
		}
	}()
}

func printStandings(report *service.Report) {
	divisions := make([]string, 0, len(report.Standings))
	for div := range report.Standings {
		divisions = append(divisions, div)
	}
	sort.Strings(divisions)

	for _, div := range divisions {
		fmt.Printf("\n%s:\n", div)
		fmt.Printf("%-4s %4s %4s %6s %5s\n", "Team", "W", "L", "Pct", "GB")
		for _, s := range report.Standings[div] {
			gb := fmt.Sprintf("%.1f", s.GamesBack)
			if s.GamesBack == 0 {
				gb = "-"
			}
			fmt.Printf("%-4s %4d %4d %6.3f %5s\n", s.Team, s.Wins, s.Losses, s.WinPct, gb)
		}
	}
}

func printProjections(report *service.Report) {
	fmt.Println("\nProjected standings (simulated wins):")
	fmt.Printf("%-4s %7s %7s %6s %6s %6s\n", "Team", "Avg", "Median", "P10", "P90", "SD")
	for _, p := range report.Projections {
		fmt.Printf("%-4s %7.1f %7.1f %6.1f %6.1f %6.2f\n",
			p.Team, p.AvgWins, p.MedianWins, p.P10, p.P90, p.StdDev)
	}
}

func printOdds(report *service.Report) {
	leagues := make([]string, 0, len(report.Odds))
	for lg := range report.Odds {
		leagues = append(leagues, lg)
	}
	sort.Strings(leagues)

	for _, lg := range leagues {
		fmt.Printf("\n%s playoff odds:\n", lg)
		fmt.Printf("%-4s %9s %9s %9s\n", "Team", "Playoffs", "Division", "Wildcard")
		for _, odds := range report.Odds[lg] {
			fmt.Printf("%-4s %8.1f%% %8.1f%% %8.1f%%\n",
				odds.Team, odds.PlayoffPct, odds.DivisionPct, odds.WildcardPct)
		}
	}
}

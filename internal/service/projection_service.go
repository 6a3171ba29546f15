package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/metrics"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/playoffs"
	"github.com/yourusername/pennantcast/internal/rating"
	"github.com/yourusername/pennantcast/internal/repository"
	"github.com/yourusername/pennantcast/internal/simulate"
)

// ProjectionParams configures one projection run.
type ProjectionParams struct {
	Simulation simulate.Config
	Odds       playoffs.Config
	// WildcardSlots per league; 3 under the current postseason format.
	WildcardSlots int

	// Preseason blending. Nil Preseason disables blending.
	FadeGames int
	Curve     rating.Curve
	Preseason map[string]float64

	// InjuryAdjusted labels persisted snapshots so the odds time series can
	// distinguish the two run variants.
	InjuryAdjusted bool
}

// Report is the full output of one projection run.
type Report struct {
	Projections []models.WinProjection
	// Odds maps league code to playoff odds.
	Odds      map[string][]models.PlayoffOdds
	NextGames []models.NextGamePrediction
	// Standings maps division name to the actual win-loss table from
	// completed games, ordered with games back of the leader.
	Standings map[string][]playoffs.Standing
	Matrix    *simulate.Matrix
}

// ProjectionService runs the season simulation pipeline: current ratings
// through the adjustment model into frozen game probabilities, Monte Carlo
// trials, and playoff odds per league.
type ProjectionService struct {
	store rating.Store
	model *adjust.Model
	odds  repository.OddsRepository
	log   logrus.FieldLogger
}

// NewProjectionService creates a projection service. The odds repository is
// optional; nil skips snapshot persistence.
func NewProjectionService(store rating.Store, model *adjust.Model, odds repository.OddsRepository, log logrus.FieldLogger) *ProjectionService {
	return &ProjectionService{store: store, model: model, odds: odds, log: log}
}

// Project simulates the rest of the season and derives playoff odds for both
// leagues from one shared win matrix, so interleague fixtures count.
func (s *ProjectionService) Project(ctx context.Context, completed, remaining []models.Game, params ProjectionParams) (*Report, error) {
	teams := league.Teams()
	wins, gamesPlayed := tallyRecord(completed)

	blended, err := s.blendedRatings(ctx, teams, gamesPlayed, params)
	if err != nil {
		return nil, err
	}

	probFn := s.probabilityFn(blended)

	start := time.Now()
	matrix, err := simulate.Run(ctx, teams, wins, remaining, probFn, params.Simulation)
	if err != nil {
		return nil, fmt.Errorf("season simulation: %w", err)
	}
	metrics.RecordSimulation(time.Since(start).Seconds())

	report := &Report{
		Projections: simulate.Summarize(matrix),
		Odds:        make(map[string][]models.PlayoffOdds, 2),
		Standings:   divisionStandings(teams, wins, gamesPlayed),
		Matrix:      matrix,
	}
	for _, lg := range []string{league.AmericanLeague, league.NationalLeague} {
		structure := league.NewStructure(lg, params.WildcardSlots)
		odds, err := playoffs.ComputeOdds(matrix, structure, params.Odds)
		if err != nil {
			return nil, fmt.Errorf("playoff odds for %s: %w", lg, err)
		}
		report.Odds[lg] = odds

		if s.odds != nil {
			snapshot := &models.OddsSnapshot{
				ID:             uuid.New(),
				Date:           time.Now().UTC(),
				League:         lg,
				Trials:         params.Simulation.Trials,
				InjuryAdjusted: params.InjuryAdjusted,
				Odds:           odds,
			}
			if err := s.odds.InsertSnapshot(ctx, snapshot); err != nil {
				return nil, fmt.Errorf("persist odds snapshot for %s: %w", lg, err)
			}
		}
	}

	report.NextGames = s.nextGames(remaining, blended)

	s.log.WithFields(logrus.Fields{
		"trials":    params.Simulation.Trials,
		"remaining": len(remaining),
	}).Info("Projection run complete")
	return report, nil
}

// blendedRatings resolves every team's prediction rating: stored rating,
// faded toward the preseason baseline early in the season.
func (s *ProjectionService) blendedRatings(ctx context.Context, teams []string, gamesPlayed map[string]int, params ProjectionParams) (map[string]float64, error) {
	stored, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	out := make(map[string]float64, len(teams))
	for _, team := range teams {
		r, ok := stored[team]
		if !ok {
			r = s.model.InitialRating()
		}
		if params.Preseason != nil && params.FadeGames > 0 {
			if pre, found := params.Preseason[team]; found {
				r = rating.Blend(r, pre, gamesPlayed[team], params.FadeGames, params.Curve)
			}
		}
		out[team] = r
	}
	return out, nil
}

// probabilityFn freezes the adjusted win probability for every remaining
// fixture. Travel context is unknown that far ahead, so only starter, park,
// bullpen, and injury adjustments apply.
func (s *ProjectionService) probabilityFn(blended map[string]float64) simulate.ProbabilityFn {
	return func(g models.Game) (float64, error) {
		home, ok := blended[g.HomeTeam]
		if !ok {
			return 0, fmt.Errorf("home %s: %w", g.HomeTeam, models.ErrUnknownTeam)
		}
		away, ok := blended[g.AwayTeam]
		if !ok {
			return 0, fmt.Errorf("away %s: %w", g.AwayTeam, models.ErrUnknownTeam)
		}
		return s.model.WinProbability(home, away, matchupFromGame(g)), nil
	}
}

// nextGames reports win expectancy for each team's next scheduled fixture.
func (s *ProjectionService) nextGames(remaining []models.Game, blended map[string]float64) []models.NextGamePrediction {
	ordered := make([]models.Game, len(remaining))
	copy(ordered, remaining)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Date.Before(ordered[b].Date)
	})

	seen := make(map[string]bool, len(blended))
	var out []models.NextGamePrediction
	for _, g := range ordered {
		home, okH := blended[g.HomeTeam]
		away, okA := blended[g.AwayTeam]
		if !okH || !okA {
			continue
		}
		pHome := s.model.WinProbability(home, away, matchupFromGame(g))
		rawHome := rating.ExpectedScore(home, away, s.model.HFA())

		if !seen[g.HomeTeam] {
			seen[g.HomeTeam] = true
			out = append(out, models.NextGamePrediction{
				Team:           g.HomeTeam,
				Opponent:       g.AwayTeam,
				Date:           g.Date,
				Home:           true,
				WinProbability: pHome,
				RawProbability: rawHome,
				TeamStarter:    g.HomeStarterName,
				OppStarter:     g.AwayStarterName,
			})
		}
		if !seen[g.AwayTeam] {
			seen[g.AwayTeam] = true
			out = append(out, models.NextGamePrediction{
				Team:           g.AwayTeam,
				Opponent:       g.HomeTeam,
				Date:           g.Date,
				Home:           false,
				WinProbability: 1 - pHome,
				RawProbability: 1 - rawHome,
				TeamStarter:    g.AwayStarterName,
				OppStarter:     g.HomeStarterName,
			})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Team < out[b].Team })
	return out
}

// History returns a team's playoff odds over time from persisted snapshots.
func (s *ProjectionService) History(ctx context.Context, team string, start, end time.Time) ([]models.OddsSnapshot, error) {
	if s.odds == nil {
		return nil, errors.New("odds history requires a repository")
	}
	snaps, err := s.odds.GetHistory(ctx, team, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]models.OddsSnapshot, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *snap)
	}
	return out, nil
}

func matchupFromGame(g models.Game) adjust.Matchup {
	return adjust.Matchup{
		Date:     g.Date,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
		Venue:    g.Venue(),
		Home: adjust.TeamContext{
			StarterID:   g.HomeStarterID,
			StarterName: g.HomeStarterName,
		},
		Away: adjust.TeamContext{
			StarterID:   g.AwayStarterID,
			StarterName: g.AwayStarterName,
		},
	}
}

// divisionStandings groups actual records by division and orders each table.
func divisionStandings(teams []string, wins, gamesPlayed map[string]int) map[string][]playoffs.Standing {
	records := make(map[string][]playoffs.Record, 6)
	for _, team := range teams {
		div := league.TeamDivision[team]
		records[div] = append(records[div], playoffs.Record{
			Team:   team,
			Wins:   wins[team],
			Losses: gamesPlayed[team] - wins[team],
		})
	}
	out := make(map[string][]playoffs.Standing, len(records))
	for div, recs := range records {
		out[div] = playoffs.Standings(recs)
	}
	return out
}

// tallyRecord folds completed games into win and games-played counts.
func tallyRecord(completed []models.Game) (wins map[string]int, gamesPlayed map[string]int) {
	wins = make(map[string]int)
	gamesPlayed = make(map[string]int)
	for _, g := range completed {
		if !g.Completed() || g.Tied() {
			continue
		}
		gamesPlayed[g.HomeTeam]++
		gamesPlayed[g.AwayTeam]++
		if g.HomeWon() {
			wins[g.HomeTeam]++
		} else {
			wins[g.AwayTeam]++
		}
	}
	return wins, gamesPlayed
}

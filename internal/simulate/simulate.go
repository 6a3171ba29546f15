// Package simulate runs Monte Carlo season simulations over a frozen set of
// game probabilities. Trials are independent, so the work is partitioned
// across workers and merged into a single win matrix.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"github.com/yourusername/pennantcast/internal/models"
)

// ProbabilityFn returns the home team's win probability for one remaining
// game. Probabilities are computed once before the trial loop starts; the
// simulator never re-evaluates them mid-run.
type ProbabilityFn func(game models.Game) (float64, error)

// Config controls one simulation run.
type Config struct {
	// Trials is the number of season trials. 10000 gives playoff-odds noise
	// under half a percentage point.
	Trials int
	// Workers caps trial-loop parallelism; 0 means GOMAXPROCS.
	Workers int
	// Seed fixes the random stream for reproducible runs; 0 seeds each
	// worker from a shared random source.
	Seed int64
}

// Matrix is the simulation output: final win totals for every team in every
// trial. Rows are trials, columns follow Teams order.
type Matrix struct {
	Teams []string
	Wins  [][]int

	index map[string]int
}

// NewMatrix builds a Matrix from precomputed rows. Used when replaying a
// persisted simulation or constructing fixtures.
func NewMatrix(teams []string, wins [][]int) *Matrix {
	index := make(map[string]int, len(teams))
	for i, team := range teams {
		index[team] = i
	}
	return &Matrix{Teams: teams, Wins: wins, index: index}
}

// TeamIndex returns a team's column in the matrix.
func (m *Matrix) TeamIndex(team string) (int, bool) {
	i, ok := m.index[team]
	return i, ok
}

// Trials returns the number of simulated seasons.
func (m *Matrix) Trials() int { return len(m.Wins) }

// fixture is a pre-resolved remaining game: team columns plus a frozen home
// win probability.
type fixture struct {
	home, away int
	prob       float64
}

// Run simulates the remainder of a season. Every trial starts from the
// actual win totals, then plays out each remaining game with one uniform
// draw against its frozen probability.
func Run(ctx context.Context, teams []string, actualWins map[string]int, remaining []models.Game, prob ProbabilityFn, cfg Config) (*Matrix, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("simulate: trials must be positive, got %d", cfg.Trials)
	}
	if prob == nil {
		return nil, fmt.Errorf("simulate: probability function is required")
	}

	index := make(map[string]int, len(teams))
	for i, team := range teams {
		index[team] = i
	}
	if len(index) != len(teams) {
		return nil, fmt.Errorf("simulate: duplicate team in team list")
	}

	baseline := make([]int, len(teams))
	for team, wins := range actualWins {
		i, ok := index[team]
		if !ok {
			return nil, fmt.Errorf("simulate: wins for %s: %w", team, models.ErrUnknownTeam)
		}
		baseline[i] = wins
	}

	// Resolve every fixture up front so the trial loop is pure arithmetic
	// and any bad input fails before workers spawn.
	fixtures := make([]fixture, 0, len(remaining))
	for _, g := range remaining {
		hi, ok := index[g.HomeTeam]
		if !ok {
			return nil, fmt.Errorf("simulate: fixture home %s: %w", g.HomeTeam, models.ErrUnknownTeam)
		}
		ai, ok := index[g.AwayTeam]
		if !ok {
			return nil, fmt.Errorf("simulate: fixture away %s: %w", g.AwayTeam, models.ErrUnknownTeam)
		}
		p, err := prob(g)
		if err != nil {
			return nil, fmt.Errorf("simulate: probability for %s at %s: %w", g.AwayTeam, g.HomeTeam, err)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("simulate: probability %f for %s at %s out of range", p, g.AwayTeam, g.HomeTeam)
		}
		fixtures = append(fixtures, fixture{home: hi, away: ai, prob: p})
	}

	wins := make([][]int, cfg.Trials)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}

	// Contiguous trial ranges per worker, each with its own rand.Rand. A
	// fixed seed makes the whole matrix reproducible for a given worker
	// count.
	var wg sync.WaitGroup
	chunk := (cfg.Trials + workers - 1) / workers
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > cfg.Trials {
			end = cfg.Trials
		}
		if start >= end {
			break
		}
		seed := cfg.Seed + int64(w)
		if cfg.Seed == 0 {
			seed = rand.Int63()
		}
		wg.Add(1)
		go func(start, end int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for trial := start; trial < end; trial++ {
				if runCtx.Err() != nil {
					return
				}
				row := make([]int, len(teams))
				copy(row, baseline)
				for _, f := range fixtures {
					if rng.Float64() < f.prob {
						row[f.home]++
					} else {
						row[f.away]++
					}
				}
				wins[trial] = row
			}
		}(start, end, seed)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Matrix{Teams: teams, Wins: wins, index: index}, nil
}

// Package playoffs reduces a simulated win matrix to playoff, division, and
// wildcard probabilities under the current postseason format.
package playoffs

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/simulate"
)

// TieBreak selects how equal win totals are ordered within a trial.
type TieBreak string

const (
	// TieBreakCode orders tied teams by team code ascending. Deterministic,
	// so repeated runs of the same matrix agree exactly.
	TieBreakCode TieBreak = "code"
	// TieBreakRandom breaks ties with a coin flip per comparison, closer to
	// how real tiebreakers shake out in aggregate.
	TieBreakRandom TieBreak = "random"
)

// ParseTieBreak validates a tie-break name from configuration.
func ParseTieBreak(name string) (TieBreak, error) {
	switch TieBreak(name) {
	case TieBreakCode, TieBreakRandom:
		return TieBreak(name), nil
	case "":
		return TieBreakCode, nil
	}
	return "", fmt.Errorf("unknown tie break %q", name)
}

// Config controls odds computation.
type Config struct {
	TieBreak TieBreak
	// Seed fixes the random tie-break stream. Ignored for TieBreakCode.
	Seed int64
}

// ComputeOdds counts, per trial, the teams that win their division or claim
// a wildcard slot, and converts the counts to percentages rounded to one
// decimal place. Results are ordered by playoff probability descending.
func ComputeOdds(m *simulate.Matrix, s league.Structure, cfg Config) ([]models.PlayoffOdds, error) {
	if m == nil || m.Trials() == 0 {
		return nil, fmt.Errorf("playoffs: empty win matrix")
	}

	type teamCol struct {
		team     string
		division string
		col      int
	}
	divisions := make(map[string][]teamCol, len(s.Divisions))
	cols := make([]teamCol, 0, len(s.Teams()))
	for div, teams := range s.Divisions {
		for _, team := range teams {
			col, ok := m.TeamIndex(team)
			if !ok {
				return nil, fmt.Errorf("playoffs: %s missing from win matrix: %w", team, models.ErrUnknownTeam)
			}
			tc := teamCol{team: team, division: div, col: col}
			divisions[div] = append(divisions[div], tc)
			cols = append(cols, tc)
		}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	// Random tie-break draws a sub-win jitter per team per trial, keeping
	// comparisons transitive within a sort.
	jitter := make([]float64, len(m.Teams))

	divisionWins := make(map[string]int, len(cols))
	wildcardWins := make(map[string]int, len(cols))

	for _, row := range m.Wins {
		if cfg.TieBreak == TieBreakRandom {
			for i := range jitter {
				jitter[i] = rng.Float64()
			}
		}
		less := func(wa, wb int, ja, jb float64, ta, tb string) bool {
			if wa != wb {
				return wa > wb
			}
			if cfg.TieBreak == TieBreakRandom && ja != jb {
				return ja > jb
			}
			return ta < tb
		}
		champs := make(map[string]bool, len(s.Divisions))
		for _, members := range divisions {
			best := members[0]
			for _, tc := range members[1:] {
				if less(row[tc.col], row[best.col], jitter[tc.col], jitter[best.col], tc.team, best.team) {
					best = tc
				}
			}
			divisionWins[best.team]++
			champs[best.team] = true
		}

		// Wildcards: best non-champions league-wide.
		field := make([]teamCol, 0, len(cols))
		for _, tc := range cols {
			if !champs[tc.team] {
				field = append(field, tc)
			}
		}
		sort.Slice(field, func(a, b int) bool {
			fa, fb := field[a], field[b]
			return less(row[fa.col], row[fb.col], jitter[fa.col], jitter[fb.col], fa.team, fb.team)
		})
		for i := 0; i < s.WildcardSlots && i < len(field); i++ {
			wildcardWins[field[i].team]++
		}
	}

	trials := float64(m.Trials())
	out := make([]models.PlayoffOdds, 0, len(cols))
	for _, tc := range cols {
		div := pct(divisionWins[tc.team], trials)
		wc := pct(wildcardWins[tc.team], trials)
		out = append(out, models.PlayoffOdds{
			Team:        tc.team,
			DivisionPct: div,
			WildcardPct: wc,
			PlayoffPct:  pct(divisionWins[tc.team]+wildcardWins[tc.team], trials),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].PlayoffPct != out[b].PlayoffPct {
			return out[a].PlayoffPct > out[b].PlayoffPct
		}
		return out[a].Team < out[b].Team
	})
	return out, nil
}

func pct(count int, trials float64) float64 {
	return math.Round(float64(count)/trials*1000) / 10
}

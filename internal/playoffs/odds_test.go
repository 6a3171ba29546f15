package playoffs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/simulate"
)

// alMatrix simulates trivial AL seasons where win totals follow team order:
// the first listed team in each trial row gets base+offset wins.
func alMatrix(t *testing.T, trials int, wins func(trial int) map[string]int) *simulate.Matrix {
	t.Helper()
	s := league.NewStructure(league.AmericanLeague, 3)
	teams := s.Teams()
	rows := make([][]int, trials)
	index := make(map[string]int, len(teams))
	for i, team := range teams {
		index[team] = i
	}
	for trial := range rows {
		row := make([]int, len(teams))
		for team, w := range wins(trial) {
			i, ok := index[team]
			require.True(t, ok, "unknown team %s", team)
			row[i] = w
		}
		rows[trial] = row
	}
	return simulate.NewMatrix(teams, rows)
}

func fixedWins() map[string]int {
	// AL East: NYY > BAL > rest; Central: CLE; West: HOU. Wildcards should
	// go to BAL, TB, BOS on win totals.
	return map[string]int{
		"NYY": 100, "BAL": 94, "TB": 90, "BOS": 88, "TOR": 70,
		"CLE": 92, "KC": 84, "DET": 80, "MIN": 78, "CWS": 60,
		"HOU": 95, "SEA": 86, "TEX": 82, "LAA": 72, "ATH": 65,
	}
}

func TestComputeOddsFieldSize(t *testing.T) {
	m := alMatrix(t, 50, func(int) map[string]int { return fixedWins() })
	s := league.NewStructure(league.AmericanLeague, 3)
	odds, err := ComputeOdds(m, s, Config{})
	require.NoError(t, err)
	require.Len(t, odds, 15)

	var playoff, division, wildcard float64
	for _, o := range odds {
		playoff += o.PlayoffPct
		division += o.DivisionPct
		wildcard += o.WildcardPct
	}
	// Six playoff slots per league, every trial.
	assert.InDelta(t, 600.0, playoff, 0.5)
	assert.InDelta(t, 300.0, division, 0.5)
	assert.InDelta(t, 300.0, wildcard, 0.5)
}

func TestComputeOddsCertainOutcomes(t *testing.T) {
	m := alMatrix(t, 40, func(int) map[string]int { return fixedWins() })
	s := league.NewStructure(league.AmericanLeague, 3)
	odds, err := ComputeOdds(m, s, Config{})
	require.NoError(t, err)

	byTeam := make(map[string]models.PlayoffOdds, len(odds))
	for _, o := range odds {
		byTeam[o.Team] = o
	}

	assert.Equal(t, 100.0, byTeam["NYY"].DivisionPct)
	assert.Equal(t, 0.0, byTeam["NYY"].WildcardPct, "a division winner never takes a wildcard")
	assert.Equal(t, 100.0, byTeam["CLE"].DivisionPct)
	assert.Equal(t, 100.0, byTeam["HOU"].DivisionPct)

	for _, team := range []string{"BAL", "TB", "BOS"} {
		assert.Equal(t, 100.0, byTeam[team].WildcardPct, team)
		assert.Equal(t, 0.0, byTeam[team].DivisionPct, team)
		assert.Equal(t, 100.0, byTeam[team].PlayoffPct, team)
	}
	assert.Equal(t, 0.0, byTeam["TOR"].PlayoffPct)
	assert.Equal(t, 0.0, byTeam["SEA"].WildcardPct, "86 wins misses a 88-win wildcard line")
}

func TestComputeOddsDeterministicTieBreak(t *testing.T) {
	wins := fixedWins()
	wins["BAL"] = 100 // tie NYY atop the East
	m := alMatrix(t, 30, func(int) map[string]int { return wins })
	s := league.NewStructure(league.AmericanLeague, 3)
	odds, err := ComputeOdds(m, s, Config{TieBreak: TieBreakCode})
	require.NoError(t, err)

	byTeam := make(map[string]models.PlayoffOdds, len(odds))
	for _, o := range odds {
		byTeam[o.Team] = o
	}
	// "BAL" < "NYY", so the code tie-break awards BAL the division every time.
	assert.Equal(t, 100.0, byTeam["BAL"].DivisionPct)
	assert.Equal(t, 0.0, byTeam["NYY"].DivisionPct)
	assert.Equal(t, 100.0, byTeam["NYY"].WildcardPct)
}

func TestComputeOddsRandomTieBreakSplits(t *testing.T) {
	wins := fixedWins()
	wins["BAL"] = 100
	m := alMatrix(t, 4000, func(int) map[string]int { return wins })
	s := league.NewStructure(league.AmericanLeague, 3)
	odds, err := ComputeOdds(m, s, Config{TieBreak: TieBreakRandom, Seed: 9})
	require.NoError(t, err)

	byTeam := make(map[string]models.PlayoffOdds, len(odds))
	for _, o := range odds {
		byTeam[o.Team] = o
	}
	assert.InDelta(t, 50.0, byTeam["BAL"].DivisionPct, 3.0)
	assert.InDelta(t, 50.0, byTeam["NYY"].DivisionPct, 3.0)
	// Whoever loses the flip still makes the field.
	assert.Equal(t, 100.0, byTeam["BAL"].PlayoffPct)
	assert.Equal(t, 100.0, byTeam["NYY"].PlayoffPct)
}

func TestComputeOddsRounding(t *testing.T) {
	// 1 of 3 trials: 33.3 after rounding to one decimal.
	trial := 0
	m := alMatrix(t, 3, func(i int) map[string]int {
		wins := fixedWins()
		if i != trial {
			wins["TOR"] = 99
			wins["BOS"] = 70
		}
		return wins
	})
	s := league.NewStructure(league.AmericanLeague, 3)
	odds, err := ComputeOdds(m, s, Config{})
	require.NoError(t, err)
	for _, o := range odds {
		if o.Team == "BOS" {
			assert.Equal(t, 33.3, o.WildcardPct)
		}
	}
}

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakCode, tb)
	_, err = ParseTieBreak("coinflip")
	assert.Error(t, err)
}

func TestStandings(t *testing.T) {
	s := Standings([]Record{
		{Team: "NYY", Wins: 60, Losses: 40},
		{Team: "BAL", Wins: 55, Losses: 45},
		{Team: "TB", Wins: 55, Losses: 43},
	})
	require.Len(t, s, 3)
	assert.Equal(t, "NYY", s[0].Team)
	assert.Equal(t, 0.0, s[0].GamesBack)
	assert.Equal(t, "TB", s[1].Team)
	assert.InDelta(t, 4.0, s[1].GamesBack, 1e-9)
	assert.InDelta(t, 5.0, s[2].GamesBack, 1e-9)
}

package backtest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

func game(day int, home, away string, hs, as int) models.Game {
	return models.Game{
		Date:      time.Date(2024, 4, day, 0, 0, 0, 0, time.UTC),
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: &hs,
		AwayScore: &as,
	}
}

func plainConfig() Config {
	cfg := DefaultConfig()
	cfg.Adjust.UseStarter = false
	cfg.Adjust.UseBullpen = false
	cfg.Adjust.UsePark = false
	cfg.Adjust.UseTravel = false
	cfg.Adjust.UseInjuries = false
	return cfg
}

func TestRunFirstPredictionIsNeutral(t *testing.T) {
	h := NewHarness(nil)
	cfg := plainConfig()
	res, err := h.Run(context.Background(), []models.Game{game(1, "NYY", "BOS", 5, 3)}, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, res.Metrics.Games)

	// Both teams debut at the initial rating, so the only signal in the
	// first prediction is home advantage plus shrinkage.
	want := adjust.Shrink(rating.ExpectedScore(1500, 1500, cfg.Rating.HFA), cfg.Adjust.Shrinkage)
	require.Len(t, res.Metrics.Calibration, 10)
	bucket := res.Metrics.Calibration[int(want*10)]
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, want, bucket.MeanPredicted, 1e-9)
}

func TestRunLearnsFromOutcomes(t *testing.T) {
	// NYY beats BOS ten straight; by the end the model should favor NYY
	// well beyond the neutral HFA line.
	games := make([]models.Game, 0, 11)
	for day := 1; day <= 10; day++ {
		games = append(games, game(day, "NYY", "BOS", 6, 1))
	}
	games = append(games, game(11, "NYY", "BOS", 4, 2))

	h := NewHarness(nil)
	res, err := h.Run(context.Background(), games, plainConfig())
	require.NoError(t, err)
	assert.Equal(t, 11, res.Metrics.Games)
	// Every prediction favored the eventual winner, so accuracy is perfect
	// and Brier beats the coin-flip 0.25.
	assert.Equal(t, 1.0, res.Metrics.Accuracy)
	assert.Less(t, res.Metrics.Brier, 0.25)
}

func TestRunOrdersGamesByDate(t *testing.T) {
	// Same games, shuffled input order: results must agree.
	ordered := []models.Game{
		game(1, "LAD", "SF", 3, 2),
		game(2, "SF", "LAD", 5, 1),
		game(3, "LAD", "SF", 2, 0),
	}
	shuffled := []models.Game{ordered[2], ordered[0], ordered[1]}

	h := NewHarness(nil)
	a, err := h.Run(context.Background(), ordered, plainConfig())
	require.NoError(t, err)
	b, err := h.Run(context.Background(), shuffled, plainConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Metrics, b.Metrics)
}

func TestRunSkipsScoringTies(t *testing.T) {
	games := []models.Game{
		game(1, "CHC", "STL", 3, 3),
		game(2, "CHC", "STL", 4, 2),
	}
	h := NewHarness(nil)
	res, err := h.Run(context.Background(), games, plainConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Metrics.Games, "tie updates ratings but is not scored")
}

func TestRunPreseasonBlending(t *testing.T) {
	// A strong preseason prior on BOS should pull the opening prediction
	// below the neutral line.
	cfg := plainConfig()
	cfg.Preseason = map[string]float64{"NYY": 1450, "BOS": 1550}
	cfg.FadeGames = 100
	cfg.Curve = rating.CurveLinear

	h := NewHarness(nil)
	res, err := h.Run(context.Background(), []models.Game{game(1, "NYY", "BOS", 2, 4)}, cfg)
	require.NoError(t, err)

	neutral := adjust.Shrink(rating.ExpectedScore(1500, 1500, cfg.Rating.HFA), cfg.Adjust.Shrinkage)
	blended := adjust.Shrink(rating.ExpectedScore(1450, 1550, cfg.Rating.HFA), cfg.Adjust.Shrinkage)
	require.Less(t, blended, neutral)

	var found bool
	for _, b := range res.Metrics.Calibration {
		if b.Count == 1 {
			assert.InDelta(t, blended, b.MeanPredicted, 1e-9)
			found = true
		}
	}
	assert.True(t, found)
}

// pitchingFixture backs both the starter and bullpen lookups with fixed
// values: one elite starter resolvable by name, one above-average bullpen.
type pitchingFixture struct{}

func (pitchingFixture) RollingFIP(int, time.Time) (float64, int, bool) { return 0, 0, false }

func (pitchingFixture) SeasonFIP(int) (models.PitcherQuality, bool) {
	return models.PitcherQuality{}, false
}

func (pitchingFixture) SeasonFIPByName(name string) (models.PitcherQuality, bool) {
	if name == "gerrit cole" {
		return models.PitcherQuality{FIP: 2.2, InningsPitched: 180}, true
	}
	return models.PitcherQuality{}, false
}

func (pitchingFixture) LeagueFIP() float64 { return 4.2 }

func (pitchingFixture) BullpenFIP(team string) (float64, bool) {
	if team == "NYY" {
		return 3.4, true
	}
	return 0, false
}

func (pitchingFixture) LeagueBullpenFIP() float64 { return 4.0 }

func TestRunAppliesWiredPitchingSources(t *testing.T) {
	games := []models.Game{
		game(1, "NYY", "BOS", 5, 3),
		game(2, "NYY", "BOS", 2, 4),
	}
	for i := range games {
		games[i].HomeStarterName = "Gerrit Cole"
	}

	cfg := plainConfig()
	cfg.Adjust.UseStarter = true
	cfg.Adjust.UseBullpen = true

	bare, err := NewHarness(nil).Run(context.Background(), games, cfg)
	require.NoError(t, err)

	wired := NewHarness(nil, adjust.WithStarters(pitchingFixture{}), adjust.WithBullpens(pitchingFixture{}))
	withPitching, err := wired.Run(context.Background(), games, cfg)
	require.NoError(t, err)

	// An elite home starter and a strong home bullpen must move the
	// predictions off the bare replay's.
	assert.NotEqual(t, bare.Metrics.LogLoss, withPitching.Metrics.LogLoss)
	assert.NotEqual(t, bare.Metrics.Brier, withPitching.Metrics.Brier)

	// With sources wired, the FIP weight is a live sweep dimension.
	heavy := cfg
	heavy.Adjust.FIPWeight = 80
	weighted, err := wired.Run(context.Background(), games, heavy)
	require.NoError(t, err)
	assert.NotEqual(t, withPitching.Metrics.LogLoss, weighted.Metrics.LogLoss)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	h := NewHarness(nil)
	cfg := plainConfig()
	cfg.Adjust.Shrinkage = 0.7
	_, err := h.Run(context.Background(), nil, cfg)
	assert.Error(t, err)

	cfg = plainConfig()
	cfg.Curve = "cubic"
	_, err = h.Run(context.Background(), nil, cfg)
	assert.Error(t, err)
}

func TestScorerMetrics(t *testing.T) {
	var s Scorer
	s.Add(0.8, true)
	s.Add(0.6, false)
	m := s.Metrics(1e-12)

	assert.Equal(t, 2, m.Games)
	assert.InDelta(t, 0.2, m.Brier, 1e-9)
	wantLogLoss := (-math.Log(0.8) - math.Log(0.4)) / 2
	assert.InDelta(t, wantLogLoss, m.LogLoss, 1e-9)
	assert.Equal(t, 0.5, m.Accuracy)

	require.Len(t, m.Calibration, 10)
	assert.Equal(t, 1, m.Calibration[8].Count)
	assert.Equal(t, 1, m.Calibration[6].Count)
	assert.Equal(t, 1.0, m.Calibration[8].ObservedRate)
	assert.Equal(t, 0.0, m.Calibration[6].ObservedRate)
}

func TestScorerEpsilonClamp(t *testing.T) {
	var s Scorer
	s.Add(0.0, true)
	m := s.Metrics(1e-12)
	assert.False(t, math.IsInf(m.LogLoss, 1), "clamp must keep log loss finite")
	assert.InDelta(t, -math.Log(1e-12), m.LogLoss, 1e-6)
}

func TestGridConfigs(t *testing.T) {
	grid := Grid{
		Shrinkages: []float64{0.10, 0.16},
		Curves:     []rating.Curve{rating.CurveLinear, rating.CurveSigmoid},
		FadeGames:  []int{50, 100, 150},
	}
	configs := grid.Configs(DefaultConfig())
	assert.Len(t, configs, 12)

	// Unswept dimensions keep the base values.
	for _, cfg := range configs {
		assert.Equal(t, 50.0, cfg.Adjust.FIPWeight)
		assert.Equal(t, 0.0, cfg.Rating.MOVCap)
	}
}

func TestSweepFindsBestAndIsolatesFailures(t *testing.T) {
	// One deliberately broken config among valid ones: the sweep must
	// finish and report exactly one failure.
	games := []models.Game{
		game(1, "NYY", "BOS", 5, 3),
		game(2, "BOS", "NYY", 2, 6),
		game(3, "NYY", "BOS", 4, 1),
	}
	grid := Grid{Shrinkages: []float64{0.0, 0.16, 0.7}}

	h := NewHarness(nil)
	res, err := h.Sweep(context.Background(), games, plainConfig(), grid, 2)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
	assert.Len(t, res.Failures, 1)
	require.NotNil(t, res.Best)
	assert.Equal(t, res.Best.Metrics.LogLoss,
		minLogLoss(res.Results))
}

func minLogLoss(results []Result) float64 {
	best := math.Inf(1)
	for _, r := range results {
		if r.Metrics.LogLoss < best {
			best = r.Metrics.LogLoss
		}
	}
	return best
}

func TestSweepEmptyGridStillRunsBase(t *testing.T) {
	h := NewHarness(nil)
	res, err := h.Sweep(context.Background(), []models.Game{game(1, "SEA", "HOU", 1, 0)},
		plainConfig(), Grid{}, 1)
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
}

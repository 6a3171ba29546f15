// Package rating implements the incremental ELO-style rating math: expected
// score, margin-of-victory dampening, the zero-sum post-game update, and
// preseason blending.
package rating

import (
	"fmt"
	"math"

	"github.com/yourusername/pennantcast/internal/models"
)

// Params holds every rating-update constant. Different run modes (daily live
// updates vs bulk historical reprocessing) are presets of this struct, not
// separate code paths.
type Params struct {
	K             float64 `json:"k"`
	HFA           float64 `json:"hfa"`
	InitialRating float64 `json:"initial_rating"`
	// MOVBase is the C constant in the log margin-of-victory formula.
	MOVBase float64 `json:"mov_base"`
	// MOVCap caps the multiplier so one lopsided game cannot produce an
	// outsized swing. Zero disables the cap (the default).
	MOVCap float64 `json:"mov_cap"`
}

// LivePreset returns the constants used for daily in-season updates.
func LivePreset() Params {
	return Params{K: 20, HFA: 55, InitialRating: 1500, MOVBase: 2.2}
}

// HistoricalPreset returns the constants used for bulk reprocessing of full
// historical game logs, where a lower K smooths century-scale replays.
func HistoricalPreset() Params {
	return Params{K: 6, HFA: 55, InitialRating: 1500, MOVBase: 2.2}
}

// ExpectedScore returns the probability that side A wins given both ratings
// and the home-field advantage added to A's side (0 for neutral site).
func ExpectedScore(ratingA, ratingB, hfa float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-(ratingA+hfa))/400.0))
}

// MOVMultiplier scales the K-factor by how lopsided the final score was,
// dampened by the pre-game rating gap so blowouts by favorites count less.
func (p Params) MOVMultiplier(scoreDiff int, ratingDiff float64) float64 {
	if scoreDiff == 0 {
		return 1.0
	}
	sd := math.Abs(float64(scoreDiff))
	raw := math.Log(sd+1) * (p.MOVBase / (0.001*math.Abs(ratingDiff) + p.MOVBase))
	if p.MOVCap > 0 && raw > p.MOVCap {
		return p.MOVCap
	}
	return raw
}

// UpdateShift returns the post-game rating shift: K * mov * (actual - expected).
// The winner gains the shift and the loser drops by the same magnitude.
// actual is 1.0 for a win, 0.0 for a loss, 0.5 for a historical tie.
// Non-finite inputs are rejected so NaN can never reach the rating store.
func (p Params) UpdateShift(expected, actual, movMult float64) (float64, error) {
	if !isFinite(expected) || !isFinite(actual) || !isFinite(movMult) {
		return 0, fmt.Errorf("update shift: %w (expected=%v actual=%v mov=%v)",
			models.ErrNonFiniteValue, expected, actual, movMult)
	}
	if actual < 0 || actual > 1 {
		return 0, fmt.Errorf("update shift: actual result %v outside [0,1]", actual)
	}
	return p.K * movMult * (actual - expected), nil
}

// ApplyGame computes both teams' post-game ratings for a completed game.
// The update is exactly zero-sum: newHome+newAway == home+away.
func (p Params) ApplyGame(home, away float64, homeScore, awayScore int) (newHome, newAway float64, err error) {
	if !isFinite(home) || !isFinite(away) {
		return 0, 0, fmt.Errorf("apply game: %w (home=%v away=%v)", models.ErrNonFiniteValue, home, away)
	}
	actual := 0.5
	switch {
	case homeScore > awayScore:
		actual = 1.0
	case homeScore < awayScore:
		actual = 0.0
	}
	mov := p.MOVMultiplier(homeScore-awayScore, home-away)
	expected := ExpectedScore(home, away, p.HFA)
	shift, err := p.UpdateShift(expected, actual, mov)
	if err != nil {
		return 0, 0, err
	}
	return home + shift, away - shift, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

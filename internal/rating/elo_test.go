package rating

import (
	"math"
	"testing"
)

func TestExpectedScoreSymmetry(t *testing.T) {
	pairs := [][2]float64{{1500, 1500}, {1600, 1450}, {1300.5, 1702.25}}
	for _, pair := range pairs {
		a := ExpectedScore(pair[0], pair[1], 0)
		b := ExpectedScore(pair[1], pair[0], 0)
		if math.Abs(a+b-1.0) > 1e-12 {
			t.Fatalf("expected_score(%v,%v) + reverse = %v, want 1", pair[0], pair[1], a+b)
		}
	}
}

func TestExpectedScoreHomeAdvantage(t *testing.T) {
	p := ExpectedScore(1500, 1500, 55)
	if math.Abs(p-0.578) > 0.001 {
		t.Fatalf("expected ~0.578 with HFA=55, got %f", p)
	}
}

func TestMOVMultiplier(t *testing.T) {
	params := LivePreset()
	// log(5) * (2.2 / (0.055 + 2.2)) for a 4-run win over a 55-point gap.
	mov := params.MOVMultiplier(4, 55)
	if math.Abs(mov-1.568) > 0.005 {
		t.Fatalf("expected MOV ~1.568, got %f", mov)
	}
	if params.MOVMultiplier(0, 55) != 1.0 {
		t.Fatal("tie games should use multiplier 1.0")
	}
	if params.MOVMultiplier(-4, 55) != params.MOVMultiplier(4, -55) {
		t.Fatal("MOV multiplier should depend only on magnitudes")
	}
}

func TestMOVCap(t *testing.T) {
	capped := LivePreset()
	capped.MOVCap = 1.5
	if got := capped.MOVMultiplier(15, 0); got != 1.5 {
		t.Fatalf("expected cap at 1.5, got %f", got)
	}
	uncapped := LivePreset()
	if got := uncapped.MOVMultiplier(15, 0); got <= 1.5 {
		t.Fatalf("expected uncapped multiplier above 1.5, got %f", got)
	}
}

func TestApplyGameZeroSum(t *testing.T) {
	params := LivePreset()
	newHome, newAway, err := params.ApplyGame(1500, 1500, 6, 2)
	if err != nil {
		t.Fatalf("ApplyGame failed: %v", err)
	}
	if math.Abs((newHome+newAway)-3000) > 1e-9 {
		t.Fatalf("update not zero-sum: %f + %f", newHome, newAway)
	}
	// Canonical scenario: 1500 vs 1500, HFA 55, home wins by 4, K=20.
	// Shift = 20 * 1.568 * (1 - 0.578) = ~13.25.
	if math.Abs(newHome-1513.25) > 0.05 {
		t.Fatalf("expected new home rating ~1513.25, got %f", newHome)
	}
	if math.Abs(newAway-1486.75) > 0.05 {
		t.Fatalf("expected new away rating ~1486.75, got %f", newAway)
	}
}

func TestApplyGameUpsetDirection(t *testing.T) {
	params := LivePreset()
	newHome, newAway, err := params.ApplyGame(1400, 1600, 1, 0)
	if err != nil {
		t.Fatalf("ApplyGame failed: %v", err)
	}
	if newHome <= 1400 || newAway >= 1600 {
		t.Fatalf("underdog win should move ratings toward the winner: %f, %f", newHome, newAway)
	}
}

func TestApplyGameTie(t *testing.T) {
	params := HistoricalPreset()
	newHome, newAway, err := params.ApplyGame(1500, 1500, 3, 3)
	if err != nil {
		t.Fatalf("ApplyGame failed: %v", err)
	}
	// Equal teams tying: only the HFA expectation moves ratings, slightly
	// toward the away side.
	if newHome >= 1500 || newAway <= 1500 {
		t.Fatalf("tie with HFA should nudge ratings away from home: %f, %f", newHome, newAway)
	}
	if math.Abs((newHome+newAway)-3000) > 1e-9 {
		t.Fatal("tie update not zero-sum")
	}
}

func TestRejectNonFinite(t *testing.T) {
	params := LivePreset()
	if _, _, err := params.ApplyGame(math.NaN(), 1500, 2, 1); err == nil {
		t.Fatal("expected error for NaN rating")
	}
	if _, _, err := params.ApplyGame(1500, math.Inf(1), 2, 1); err == nil {
		t.Fatal("expected error for Inf rating")
	}
	if _, err := params.UpdateShift(0.5, math.NaN(), 1.0); err == nil {
		t.Fatal("expected error for NaN actual")
	}
}

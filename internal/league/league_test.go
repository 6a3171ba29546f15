package league

import (
	"math"
	"testing"
)

func TestPartitionComplete(t *testing.T) {
	if len(TeamLeague) != 30 {
		t.Fatalf("expected 30 teams, got %d", len(TeamLeague))
	}
	for team := range TeamLeague {
		if _, ok := TeamDivision[team]; !ok {
			t.Fatalf("team %s has no division", team)
		}
		if _, ok := Ballparks[team]; !ok {
			t.Fatalf("team %s has no ballpark", team)
		}
	}
}

func TestStructure(t *testing.T) {
	s := NewStructure(AmericanLeague, 3)
	if len(s.Divisions) != 3 {
		t.Fatalf("expected 3 AL divisions, got %d", len(s.Divisions))
	}
	if got := len(s.Teams()); got != 15 {
		t.Fatalf("expected 15 AL teams, got %d", got)
	}
	if s.FieldSize() != 6 {
		t.Fatalf("expected playoff field of 6, got %d", s.FieldSize())
	}
}

func TestNormalizeFranchises(t *testing.T) {
	cases := map[string]string{
		"NYA": "NYY", "BRO": "LAD", "MON": "WSH", "OAK": "ATH",
		"ARI": "AZ", "BAL": "BAL", "XYZ": "XYZ",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	ab, ok := Distance("BAL", "SEA")
	if !ok {
		t.Fatal("expected distance for BAL-SEA")
	}
	ba, _ := Distance("SEA", "BAL")
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
	// Cross-country trip is comfortably past the travel threshold.
	if ab < 2000 {
		t.Fatalf("BAL-SEA distance implausibly small: %f", ab)
	}
	if self, _ := Distance("BOS", "BOS"); self != 0 {
		t.Fatalf("self distance should be 0, got %f", self)
	}
}

func TestParkFactorFallback(t *testing.T) {
	pf, ok := ParkFactor("COL", 2024)
	if !ok || pf != 113 {
		t.Fatalf("expected Coors 113, got %f (ok=%v)", pf, ok)
	}
	// Unknown season falls back to the default table.
	pf, ok = ParkFactor("COL", 1999)
	if !ok || pf != 113 {
		t.Fatalf("expected fallback 113, got %f (ok=%v)", pf, ok)
	}
	if _, ok := ParkFactor("XYZ", 2024); ok {
		t.Fatal("expected unknown team to report !ok")
	}
}

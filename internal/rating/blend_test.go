package rating

import (
	"math"
	"testing"
)

func TestBlendBoundaries(t *testing.T) {
	const cur, pre = 1540.0, 1480.0
	for _, curve := range Curves {
		if got := Blend(cur, pre, 0, 100, curve); got != pre {
			t.Errorf("%s: blend at 0 games = %f, want preseason %f", curve, got, pre)
		}
		if got := Blend(cur, pre, 100, 100, curve); got != cur {
			t.Errorf("%s: blend at fade games = %f, want current %f", curve, got, cur)
		}
		if got := Blend(cur, pre, 162, 100, curve); got != cur {
			t.Errorf("%s: blend past fade games = %f, want current %f", curve, got, cur)
		}
	}
}

func TestBlendMonotonic(t *testing.T) {
	const cur, pre = 1600.0, 1400.0
	for _, curve := range Curves {
		prev := Blend(cur, pre, 0, 100, curve)
		for gp := 10; gp <= 100; gp += 10 {
			next := Blend(cur, pre, gp, 100, curve)
			if next < prev-1e-9 {
				t.Errorf("%s: blend not monotonic at gp=%d (%f < %f)", curve, gp, next, prev)
			}
			prev = next
		}
	}
}

func TestBlendMidpoints(t *testing.T) {
	// At t=0.5: linear 0.5, cosine 0.5, sigmoid 0.5, quadratic 0.75.
	cases := map[Curve]float64{
		CurveLinear:    0.5,
		CurveCosine:    0.5,
		CurveSigmoid:   0.5,
		CurveQuadratic: 0.75,
	}
	for curve, pct := range cases {
		want := pct*1600 + (1-pct)*1400
		got := Blend(1600, 1400, 50, 100, curve)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("%s: blend midpoint = %f, want %f", curve, got, want)
		}
	}
}

func TestBlendZeroFadeGames(t *testing.T) {
	if got := Blend(1550, 1450, 10, 0, CurveLinear); got != 1550 {
		t.Fatalf("zero fade games should return current rating, got %f", got)
	}
}

func TestParseCurve(t *testing.T) {
	if _, err := ParseCurve("cosine"); err != nil {
		t.Fatalf("cosine should parse: %v", err)
	}
	if _, err := ParseCurve("cubic"); err == nil {
		t.Fatal("expected error for unknown curve")
	}
}

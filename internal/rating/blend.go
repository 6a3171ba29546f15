package rating

import (
	"fmt"
	"math"
)

// Curve names a fade-curve shape controlling how quickly the preseason prior
// gives way to in-season evidence.
type Curve string

const (
	CurveLinear    Curve = "linear"
	CurveCosine    Curve = "cosine"
	CurveSigmoid   Curve = "sigmoid"
	CurveQuadratic Curve = "quadratic"
)

// Curves lists every supported fade curve, in sweep order.
var Curves = []Curve{CurveLinear, CurveCosine, CurveSigmoid, CurveQuadratic}

// ParseCurve validates a curve name from configuration.
func ParseCurve(name string) (Curve, error) {
	switch Curve(name) {
	case CurveLinear, CurveCosine, CurveSigmoid, CurveQuadratic:
		return Curve(name), nil
	}
	return "", fmt.Errorf("unknown fade curve %q", name)
}

// Pct maps normalized season progress t in [0,1] to the weight on the
// current rating.
func (c Curve) Pct(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch c {
	case CurveCosine:
		return 0.5 * (1.0 - math.Cos(math.Pi*t))
	case CurveSigmoid:
		return 1.0 / (1.0 + math.Exp(-10*(t-0.5)))
	case CurveQuadratic:
		return 1.0 - (1.0-t)*(1.0-t)
	default:
		return t
	}
}

// Blend mixes the in-season rating with the preseason baseline as a function
// of games played. At zero games played the preseason prior dominates fully;
// at fadeGames or beyond the preseason influence is zero. Early-season
// ratings are small-sample noise, which is the whole reason this exists.
func Blend(current, preseason float64, gamesPlayed, fadeGames int, curve Curve) float64 {
	if fadeGames <= 0 {
		return current
	}
	pct := curve.Pct(float64(gamesPlayed) / float64(fadeGames))
	return pct*current + (1-pct)*preseason
}

package adjust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

type stubStarters struct {
	rolling map[int]struct {
		fip    float64
		starts int
	}
	season map[int]models.PitcherQuality
	byName map[string]models.PitcherQuality
	league float64
}

func (s *stubStarters) RollingFIP(id int, _ time.Time) (float64, int, bool) {
	r, ok := s.rolling[id]
	return r.fip, r.starts, ok
}

func (s *stubStarters) SeasonFIP(id int) (models.PitcherQuality, bool) {
	q, ok := s.season[id]
	return q, ok
}

func (s *stubStarters) SeasonFIPByName(name string) (models.PitcherQuality, bool) {
	q, ok := s.byName[name]
	return q, ok
}

func (s *stubStarters) LeagueFIP() float64 { return s.league }

type stubBullpens struct {
	fips   map[string]float64
	league float64
}

func (s *stubBullpens) BullpenFIP(team string) (float64, bool) {
	f, ok := s.fips[team]
	return f, ok
}

func (s *stubBullpens) LeagueBullpenFIP() float64 { return s.league }

type stubParks map[string]float64

func (s stubParks) ParkFactor(team string) (float64, bool) {
	pf, ok := s[team]
	return pf, ok
}

type stubGeo struct {
	miles   map[[2]string]float64
	offsets map[string]int
}

func (s *stubGeo) Distance(a, b string) (float64, bool) {
	if m, ok := s.miles[[2]string{a, b}]; ok {
		return m, true
	}
	m, ok := s.miles[[2]string{b, a}]
	return m, ok
}

func (s *stubGeo) UTCOffset(team string) (int, bool) {
	o, ok := s.offsets[team]
	return o, ok
}

type stubInjuries map[string]float64

func (s stubInjuries) WARLost(team string) (float64, bool) {
	w, ok := s[team]
	return w, ok
}

func TestShrink(t *testing.T) {
	assert.InDelta(t, 0.636, Shrink(0.70, 0.16), 1e-9)
	assert.InDelta(t, 0.5, Shrink(0.5, 0.16), 1e-12)
	assert.InDelta(t, 0.16, Shrink(0.0, 0.16), 1e-12)
	assert.InDelta(t, 0.84, Shrink(1.0, 0.16), 1e-12)
	assert.Equal(t, 0.25, Shrink(0.25, 0.0))
}

func TestBareModelMatchesBaseRatings(t *testing.T) {
	m := New(DefaultParams(), rating.LivePreset())
	mu := Matchup{HomeTeam: "NYY", AwayTeam: "BOS", Venue: "NYY"}
	home, away := m.EffectiveRatings(1520, 1480, mu)
	assert.Equal(t, 1520.0, home)
	assert.Equal(t, 1480.0, away)

	raw := rating.ExpectedScore(1520, 1480, 55)
	assert.InDelta(t, Shrink(raw, 0.16), m.WinProbability(1520, 1480, mu), 1e-12)
}

func TestStarterAdjustmentPrefersRolling(t *testing.T) {
	id := 543037
	starters := &stubStarters{
		rolling: map[int]struct {
			fip    float64
			starts int
		}{id: {fip: 2.80, starts: 5}},
		season: map[int]models.PitcherQuality{
			id: {PitcherID: id, FIP: 3.50, InningsPitched: 120},
		},
		league: 4.20,
	}
	params := DefaultParams()
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithStarters(starters))

	mu := Matchup{HomeTeam: "NYY", AwayTeam: "BOS", Venue: "NYY", Home: TeamContext{StarterID: &id}}
	home, away := m.EffectiveRatings(1500, 1500, mu)
	// Rolling FIP 2.80 vs league 4.20 at weight 50: +70 points.
	assert.InDelta(t, 1570, home, 1e-9)
	assert.Equal(t, 1500.0, away)
}

func TestStarterAdjustmentFallsBackToRegressedSeason(t *testing.T) {
	id := 605483
	starters := &stubStarters{
		rolling: map[int]struct {
			fip    float64
			starts int
		}{id: {fip: 1.10, starts: 2}},
		season: map[int]models.PitcherQuality{
			id: {PitcherID: id, FIP: 3.00, InningsPitched: 50},
		},
		league: 4.00,
	}
	params := DefaultParams()
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithStarters(starters))

	mu := Matchup{HomeTeam: "SEA", AwayTeam: "HOU", Venue: "SEA", Home: TeamContext{StarterID: &id}}
	home, _ := m.EffectiveRatings(1500, 1500, mu)
	// 2 starts is below the rolling minimum, so the season FIP regressed
	// halfway to league over a 50 IP prior applies: (50*3 + 50*4)/100 = 3.50.
	assert.InDelta(t, 1500+(4.00-3.50)*50, home, 1e-9)
}

func TestStarterAdjustmentByName(t *testing.T) {
	starters := &stubStarters{
		byName: map[string]models.PitcherQuality{
			"jose berrios": {Name: "José Berríos", FIP: 4.00, InningsPitched: 1000},
		},
		league: 4.50,
	}
	params := DefaultParams()
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithStarters(starters))

	mu := Matchup{HomeTeam: "TOR", AwayTeam: "TB", Venue: "TOR",
		Home: TeamContext{StarterName: "José Berríos"}}
	home, _ := m.EffectiveRatings(1500, 1500, mu)
	// 1000 IP overwhelms the 50 IP prior; regressed FIP stays near 4.02.
	regressed := (1000*4.00 + 50*4.50) / 1050
	assert.InDelta(t, 1500+(4.50-regressed)*50, home, 1e-9)
}

func TestUnknownStarterIsZeroAdjustment(t *testing.T) {
	starters := &stubStarters{league: 4.20}
	params := DefaultParams()
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithStarters(starters))

	id := 999999
	mu := Matchup{HomeTeam: "CHC", AwayTeam: "STL", Venue: "CHC",
		Home: TeamContext{StarterID: &id, StarterName: "Nobody Knows"}}
	home, away := m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1500.0, home)
	assert.Equal(t, 1500.0, away)
}

func TestBullpenAdjustment(t *testing.T) {
	pens := &stubBullpens{
		fips:   map[string]float64{"CLE": 3.40, "MIN": 4.60},
		league: 4.00,
	}
	params := DefaultParams()
	params.UseStarter = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithBullpens(pens))

	mu := Matchup{HomeTeam: "CLE", AwayTeam: "MIN", Venue: "CLE"}
	home, away := m.EffectiveRatings(1500, 1500, mu)
	assert.InDelta(t, 1500+(4.00-3.40)*15, home, 1e-9)
	assert.InDelta(t, 1500+(4.00-4.60)*15, away, 1e-9)
}

func TestParkScalingAppliesToBothSides(t *testing.T) {
	pens := &stubBullpens{fips: map[string]float64{"COL": 3.50, "LAD": 3.50}, league: 4.00}
	parks := stubParks{"COL": 112.0}
	params := DefaultParams()
	params.UseStarter = false
	m := New(params, rating.LivePreset(), WithBullpens(pens), WithParks(parks))

	mu := Matchup{HomeTeam: "COL", AwayTeam: "LAD", Venue: "COL"}
	home, away := m.EffectiveRatings(1500, 1500, mu)
	// Coors mutes pitching edges: multiplier 100/112 on both adjustments.
	want := 1500 + (100.0/112.0)*(4.00-3.50)*15
	assert.InDelta(t, want, home, 1e-9)
	assert.InDelta(t, want, away, 1e-9)
}

func TestParkScaleBlending(t *testing.T) {
	params := DefaultParams()
	params.ParkScale = 0.5
	m := New(params, rating.LivePreset(), WithParks(stubParks{"BOS": 108.0}))
	// Half scaling: midpoint between 100/108 and 1.
	want := (100.0/108.0)*0.5 + 0.5
	assert.InDelta(t, want, m.parkMultiplier("BOS"), 1e-12)
	// Unknown venue falls back to neutral.
	assert.Equal(t, 1.0, m.parkMultiplier("SD"))
}

func TestTravelPenalty(t *testing.T) {
	geo := &stubGeo{
		miles: map[[2]string]float64{
			{"SEA", "NYY"}: 2400,
			{"NYY", "PHI"}: 95,
			{"NYY", "SEA"}: 2400,
		},
		offsets: map[string]int{"SEA": -8, "NYY": -5, "PHI": -5},
	}
	params := DefaultParams()
	params.UseStarter = false
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithGeography(geo))

	mu := Matchup{HomeTeam: "NYY", AwayTeam: "SEA", Venue: "NYY",
		Away: TeamContext{PrevVenue: "SEA"}}
	_, away := m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1490.0, away, "eastward cross-country trip should cost the penalty")

	// Westward travel is free.
	mu = Matchup{HomeTeam: "SEA", AwayTeam: "NYY", Venue: "SEA",
		Away: TeamContext{PrevVenue: "NYY"}}
	_, away = m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1500.0, away)

	// Short hops are free even with a venue change.
	mu = Matchup{HomeTeam: "PHI", AwayTeam: "NYY", Venue: "PHI",
		Away: TeamContext{PrevVenue: "NYY"}}
	_, away = m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1500.0, away)

	// No previous venue, no penalty.
	mu = Matchup{HomeTeam: "NYY", AwayTeam: "SEA", Venue: "NYY"}
	_, away = m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1500.0, away)
}

func TestInjuryPenalty(t *testing.T) {
	params := DefaultParams()
	params.UseStarter = false
	params.UseBullpen = false
	params.UsePark = false
	m := New(params, rating.LivePreset(), WithInjuries(stubInjuries{"LAD": 3.2, "SF": -0.5}))

	mu := Matchup{HomeTeam: "LAD", AwayTeam: "SF", Venue: "LAD"}
	home, away := m.EffectiveRatings(1550, 1500, mu)
	assert.InDelta(t, 1550-3.2*5, home, 1e-9)
	assert.Equal(t, 1500.0, away, "negative WAR lost must not boost a team")
}

func TestDisabledTogglesIgnoreSources(t *testing.T) {
	params := DefaultParams()
	params.UseStarter = false
	params.UseBullpen = false
	params.UsePark = false
	params.UseTravel = false
	params.UseInjuries = false

	id := 1
	m := New(params, rating.LivePreset(),
		WithStarters(&stubStarters{season: map[int]models.PitcherQuality{id: {FIP: 1.0, InningsPitched: 200}}, league: 4.2}),
		WithBullpens(&stubBullpens{fips: map[string]float64{"NYY": 2.0}, league: 4.0}),
		WithParks(stubParks{"NYY": 120}),
		WithGeography(&stubGeo{miles: map[[2]string]float64{{"SEA", "NYY"}: 2400}, offsets: map[string]int{"SEA": -8, "NYY": -5}}),
		WithInjuries(stubInjuries{"NYY": 10}),
	)
	mu := Matchup{HomeTeam: "NYY", AwayTeam: "BOS", Venue: "NYY",
		Home: TeamContext{StarterID: &id, PrevVenue: "SEA"}}
	home, away := m.EffectiveRatings(1500, 1500, mu)
	assert.Equal(t, 1500.0, home)
	assert.Equal(t, 1500.0, away)
}

func TestWinProbabilityBounds(t *testing.T) {
	m := New(DefaultParams(), rating.LivePreset())
	mu := Matchup{HomeTeam: "NYY", AwayTeam: "COL", Venue: "NYY"}
	p := m.WinProbability(2000, 1000, mu)
	require.Less(t, p, 0.84+1e-12)
	require.Greater(t, p, 0.5)
	p = m.WinProbability(1000, 2000, mu)
	require.Greater(t, p, 0.16-1e-12)
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"José Berríos":        "jose berrios",
		"Luis Castillo Jr.":   "luis castillo",
		"J.P.  France":        "jp france",
		"Hyun-Jin Ryu":        "hyun jin ryu",
		"LUIS GARCIA":         "luis garcia",
		"Michael Fulmer III":  "michael fulmer",
		"  Shane  McClanahan": "shane mcclanahan",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestRegressFIPZeroDenominator(t *testing.T) {
	assert.Equal(t, 4.20, regressFIP(2.0, 0, 4.20, 0))
}

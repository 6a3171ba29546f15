package adjust

import (
	"math"
	"time"

	"github.com/yourusername/pennantcast/internal/rating"
)

// TeamContext carries the per-team inputs for one matchup. Any field may be
// absent; missing context contributes a zero adjustment rather than an error.
type TeamContext struct {
	StarterID   *int
	StarterName string
	// PrevVenue is the home team code of this club's previous game, "" when
	// unknown or on opening day.
	PrevVenue string
}

// Matchup describes one scheduled game plus whatever context is known.
type Matchup struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string
	// Venue is the home team code of the park hosting the game. Usually
	// HomeTeam, but neutral-site games differ.
	Venue string
	Home   TeamContext
	Away   TeamContext
}

// Model layers contextual adjustments on top of base ratings. Sources are
// optional: a nil source disables that adjustment the same way its Use flag
// does, so a bare Model degrades to plain rating math.
type Model struct {
	params   Params
	elo      rating.Params
	starters FIPSource
	bullpens BullpenSource
	parks    ParkSource
	geo      Geography
	injuries InjurySource
}

// Option wires one data source into a Model.
type Option func(*Model)

func WithStarters(s FIPSource) Option     { return func(m *Model) { m.starters = s } }
func WithBullpens(b BullpenSource) Option { return func(m *Model) { m.bullpens = b } }
func WithParks(p ParkSource) Option       { return func(m *Model) { m.parks = p } }
func WithGeography(g Geography) Option    { return func(m *Model) { m.geo = g } }
func WithInjuries(i InjurySource) Option  { return func(m *Model) { m.injuries = i } }

// New builds an adjustment model over the given rating parameters.
func New(params Params, elo rating.Params, opts ...Option) *Model {
	m := &Model{params: params, elo: elo}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Params returns the model's adjustment weights.
func (m *Model) Params() Params { return m.params }

// InitialRating returns the rating assigned to unseen teams.
func (m *Model) InitialRating() float64 { return m.elo.InitialRating }

// HFA returns the home-field advantage in rating points.
func (m *Model) HFA() float64 { return m.elo.HFA }

// EffectiveRatings applies every enabled adjustment to the base ratings for
// one matchup. Starter and bullpen adjustments are scaled by the venue's park
// factor before being added; travel and injury deductions are flat.
func (m *Model) EffectiveRatings(home, away float64, mu Matchup) (float64, float64) {
	park := m.parkMultiplier(mu.Venue)

	home += park * m.starterAdjustment(mu.Home, mu.Date)
	away += park * m.starterAdjustment(mu.Away, mu.Date)
	home += park * m.bullpenAdjustment(mu.HomeTeam)
	away += park * m.bullpenAdjustment(mu.AwayTeam)

	home -= m.travelPenalty(mu.Home.PrevVenue, mu.Venue)
	away -= m.travelPenalty(mu.Away.PrevVenue, mu.Venue)

	home -= m.injuryPenalty(mu.HomeTeam)
	away -= m.injuryPenalty(mu.AwayTeam)

	return home, away
}

// WinProbability returns the home team's adjusted win probability for one
// matchup. Shrinkage toward 0.5 is applied last, after all rating-space
// adjustments have been folded in.
func (m *Model) WinProbability(home, away float64, mu Matchup) float64 {
	effHome, effAway := m.EffectiveRatings(home, away, mu)
	raw := rating.ExpectedScore(effHome, effAway, m.elo.HFA)
	return Shrink(raw, m.params.Shrinkage)
}

// Shrink pulls p toward 0.5 by the shrinkage constant s, mapping [0,1] onto
// [s, 1-s] and leaving 0.5 fixed.
func Shrink(p, s float64) float64 {
	return s + (1-2*s)*p
}

func (m *Model) starterAdjustment(tc TeamContext, date time.Time) float64 {
	if !m.params.UseStarter || m.starters == nil {
		return 0
	}
	fip, ok := m.resolveStarterFIP(tc.StarterID, tc.StarterName, date)
	if !ok || !finite(fip) {
		return 0
	}
	return (m.starters.LeagueFIP() - fip) * m.params.FIPWeight
}

func (m *Model) bullpenAdjustment(team string) float64 {
	if !m.params.UseBullpen || m.bullpens == nil {
		return 0
	}
	fip, ok := m.bullpens.BullpenFIP(team)
	if !ok || !finite(fip) {
		return 0
	}
	return (m.bullpens.LeagueBullpenFIP() - fip) * m.params.BullpenWeight
}

// parkMultiplier converts the venue's park factor into a scaler for
// pitching-quality adjustments. Hitter-friendly parks (factor above 100)
// mute pitching edges; pitcher-friendly parks amplify them. ParkScale blends
// the raw multiplier with 1.0.
func (m *Model) parkMultiplier(venue string) float64 {
	if !m.params.UsePark || m.parks == nil {
		return 1
	}
	pf, ok := m.parks.ParkFactor(venue)
	if !ok || !finite(pf) || pf <= 0 {
		return 1
	}
	return (100/pf)*m.params.ParkScale + (1 - m.params.ParkScale)
}

func (m *Model) travelPenalty(prevVenue, venue string) float64 {
	if !m.params.UseTravel || m.geo == nil {
		return 0
	}
	if prevVenue == "" || prevVenue == venue {
		return 0
	}
	miles, ok := m.geo.Distance(prevVenue, venue)
	if !ok || miles < m.params.TravelDistanceMiles {
		return 0
	}
	from, okFrom := m.geo.UTCOffset(prevVenue)
	to, okTo := m.geo.UTCOffset(venue)
	if !okFrom || !okTo {
		return 0
	}
	// Only eastward shifts count: circadian disruption hits hardest when the
	// body clock has to move forward.
	if to-from < m.params.TravelTZShiftHours {
		return 0
	}
	return m.params.TravelPenalty
}

func (m *Model) injuryPenalty(team string) float64 {
	if !m.params.UseInjuries || m.injuries == nil {
		return 0
	}
	war, ok := m.injuries.WARLost(team)
	if !ok || !finite(war) || war <= 0 {
		return 0
	}
	return war * m.params.WARWeight
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

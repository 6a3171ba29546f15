package models

import "time"

// Game represents a single scheduled or completed game. Scores are nil for
// games that have not been played yet; such games are simulation fixtures.
type Game struct {
	Date            time.Time `db:"game_date" json:"date"`
	HomeTeam        string    `db:"home_team" json:"home_team"`
	AwayTeam        string    `db:"away_team" json:"away_team"`
	HomeScore       *int      `db:"home_score" json:"home_score,omitempty"`
	AwayScore       *int      `db:"away_score" json:"away_score,omitempty"`
	HomeStarterID   *int      `db:"home_starter_id" json:"home_starter_id,omitempty"`
	AwayStarterID   *int      `db:"away_starter_id" json:"away_starter_id,omitempty"`
	HomeStarterName string    `db:"home_starter_name" json:"home_starter_name,omitempty"`
	AwayStarterName string    `db:"away_starter_name" json:"away_starter_name,omitempty"`
	// VenueTeam is the team whose park hosts the game. Usually the home
	// team, but differs for international and relocated games.
	VenueTeam string `db:"venue_team" json:"venue_team"`
}

// Completed reports whether both scores are recorded.
func (g Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// HomeWon reports whether the home team won. False for scheduled games.
func (g Game) HomeWon() bool {
	return g.Completed() && *g.HomeScore > *g.AwayScore
}

// Tied reports whether the game ended level. Only occurs in pre-modern
// historical data.
func (g Game) Tied() bool {
	return g.Completed() && *g.HomeScore == *g.AwayScore
}

// ScoreDiff returns home score minus away score, 0 for scheduled games.
func (g Game) ScoreDiff() int {
	if !g.Completed() {
		return 0
	}
	return *g.HomeScore - *g.AwayScore
}

// Venue returns the park hosting the game, defaulting to the home team.
func (g Game) Venue() string {
	if g.VenueTeam != "" {
		return g.VenueTeam
	}
	return g.HomeTeam
}

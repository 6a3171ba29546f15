package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayoffOdds holds one team's qualification probabilities, in percent
// rounded to one decimal place.
type PlayoffOdds struct {
	Team        string  `db:"team" json:"team"`
	PlayoffPct  float64 `db:"playoff_pct" json:"playoff_pct"`
	DivisionPct float64 `db:"division_pct" json:"division_pct"`
	WildcardPct float64 `db:"wildcard_pct" json:"wildcard_pct"`
}

// OddsSnapshot is one dated playoff-odds run, appended to the published
// time series.
type OddsSnapshot struct {
	ID             uuid.UUID     `db:"id" json:"id"`
	Date           time.Time     `db:"snapshot_date" json:"date"`
	League         string        `db:"league" json:"league"`
	Trials         int           `db:"trials" json:"trials"`
	InjuryAdjusted bool          `db:"injury_adjusted" json:"injury_adjusted"`
	Odds           []PlayoffOdds `json:"odds"`
}

// NextGamePrediction is the win expectancy for a team's next scheduled game.
type NextGamePrediction struct {
	Team           string    `json:"team"`
	Opponent       string    `json:"opponent"`
	Date           time.Time `json:"date"`
	Home           bool      `json:"home"`
	WinProbability float64   `json:"win_probability"`
	RawProbability float64   `json:"raw_win_probability"`
	TeamStarter    string    `json:"team_starter,omitempty"`
	OppStarter     string    `json:"opp_starter,omitempty"`
}

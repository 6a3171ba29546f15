package models

import "time"

// TeamRating is the live strength estimate for one team on the unbounded
// logistic scale. By convention ratings center near 1500.
type TeamRating struct {
	Team   string    `db:"team" json:"team"`
	Rating float64   `db:"rating" json:"rating"`
	AsOf   time.Time `db:"as_of" json:"as_of"`
}

// PitcherQuality is a season-level or rolling-window FIP aggregate for a
// single pitcher.
type PitcherQuality struct {
	PitcherID      int     `db:"pitcher_id" json:"pitcher_id"`
	Name           string  `db:"name" json:"name"`
	FIP            float64 `db:"fip" json:"fip"`
	InningsPitched float64 `db:"innings_pitched" json:"ip"`
}

// WinProjection summarizes one team's simulated end-of-season win total
// distribution.
type WinProjection struct {
	Team       string  `json:"team"`
	AvgWins    float64 `json:"avg_wins"`
	MedianWins float64 `json:"median_wins"`
	StdDev     float64 `json:"std_dev"`
	P10        float64 `json:"p10"`
	P25        float64 `json:"p25"`
	P75        float64 `json:"p75"`
	P90        float64 `json:"p90"`
}

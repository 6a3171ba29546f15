package adjust

import (
	"time"

	"github.com/yourusername/pennantcast/internal/models"
)

// FIPSource resolves starter and bullpen quality. Implementations are free to
// back this with the Stats API, a database, or fixtures; the model only sees
// lookups that may fail.
type FIPSource interface {
	// RollingFIP returns a starter's FIP over their recent starts strictly
	// before date, and the number of starts in that window.
	RollingFIP(pitcherID int, date time.Time) (fip float64, starts int, ok bool)
	// SeasonFIP returns a starter's season aggregate by MLB pitcher ID.
	SeasonFIP(pitcherID int) (models.PitcherQuality, bool)
	// SeasonFIPByName resolves a starter by normalized name when no ID is
	// available, as with probable starters from scraped schedules.
	SeasonFIPByName(name string) (models.PitcherQuality, bool)
	// LeagueFIP is the innings-weighted league average used as the
	// regression prior and the zero point for adjustments.
	LeagueFIP() float64
}

// BullpenSource resolves team-level relief pitching quality.
type BullpenSource interface {
	BullpenFIP(team string) (float64, bool)
	LeagueBullpenFIP() float64
}

// ParkSource resolves a park factor for a home team, 100 = neutral.
type ParkSource interface {
	ParkFactor(team string) (float64, bool)
}

// Geography answers travel questions between home parks.
type Geography interface {
	Distance(teamA, teamB string) (miles float64, ok bool)
	UTCOffset(team string) (hours int, ok bool)
}

// InjurySource reports cumulative WAR currently on the injured list.
type InjurySource interface {
	WARLost(team string) (float64, bool)
}

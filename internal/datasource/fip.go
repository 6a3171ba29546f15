package datasource

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/models"
)

const (
	// leagueFIPMinIP is the innings floor for a pitcher to count toward the
	// league average. Cup-of-coffee arms distort the mean otherwise.
	leagueFIPMinIP = 10.0
	// fallbackLeagueFIP covers the empty-table case at the start of a season.
	fallbackLeagueFIP = 4.20
)

// PitchingLine is one pitcher's raw season counting stats.
type PitchingLine struct {
	PitcherID    int
	Name         string
	Team         string
	HomeRuns     float64
	Walks        float64
	HitByPitch   float64
	Strikeouts   float64
	IP           float64
	GamesStarted int
}

// ParseInnings converts baseball thirds notation to a decimal: "162.1" is
// 162 and one third of an inning.
func ParseInnings(s string) (float64, error) {
	whole, frac, found := strings.Cut(s, ".")
	ip, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid innings %q: %w", s, err)
	}
	if !found {
		return ip, nil
	}
	switch frac {
	case "0":
	case "1":
		ip += 1.0 / 3.0
	case "2":
		ip += 2.0 / 3.0
	default:
		return 0, fmt.Errorf("invalid innings %q: thirds digit must be 0, 1, or 2", s)
	}
	return ip, nil
}

// FIP computes fielding-independent pitching for one line using the league
// constant.
func FIP(line PitchingLine, cFIP float64) float64 {
	if line.IP <= 0 {
		return math.NaN()
	}
	return (13*line.HomeRuns+3*(line.Walks+line.HitByPitch)-2*line.Strikeouts)/line.IP + cFIP
}

// LeagueConstant derives the cFIP constant that recenters raw FIP onto the
// league's runs-per-nine scale.
func LeagueConstant(lines []PitchingLine, leagueERA float64) float64 {
	var hr, bb, hbp, k, ip float64
	for _, l := range lines {
		hr += l.HomeRuns
		bb += l.Walks
		hbp += l.HitByPitch
		k += l.Strikeouts
		ip += l.IP
	}
	if ip <= 0 {
		return 0
	}
	return leagueERA - (13*hr+3*(bb+hbp)-2*k)/ip
}

// FIPTable holds resolved pitcher and bullpen quality for one season. It
// implements both the starter and bullpen source interfaces of the
// adjustment model.
type FIPTable struct {
	byID      map[int]models.PitcherQuality
	byName    map[string]models.PitcherQuality
	rolling   map[int]rollingEntry
	bullpens  map[string]float64
	leagueFIP float64
	leaguePen float64
}

type rollingEntry struct {
	fip    float64
	starts int
}

var (
	_ adjust.FIPSource     = (*FIPTable)(nil)
	_ adjust.BullpenSource = (*FIPTable)(nil)
)

// BuildFIPTable computes per-pitcher FIP, the innings-weighted league
// average, and team bullpen aggregates from raw season lines.
func BuildFIPTable(lines []PitchingLine, cFIP float64) *FIPTable {
	t := &FIPTable{
		byID:     make(map[int]models.PitcherQuality, len(lines)),
		byName:   make(map[string]models.PitcherQuality, len(lines)),
		rolling:  make(map[int]rollingEntry),
		bullpens: make(map[string]float64),
	}

	var lgNum, lgIP float64
	penNum := make(map[string]float64)
	penIP := make(map[string]float64)

	for _, l := range lines {
		fip := FIP(l, cFIP)
		if math.IsNaN(fip) {
			continue
		}
		q := models.PitcherQuality{
			PitcherID:      l.PitcherID,
			Name:           l.Name,
			FIP:            fip,
			InningsPitched: l.IP,
		}
		t.byID[l.PitcherID] = q
		t.byName[adjust.NormalizeName(l.Name)] = q

		if l.IP >= leagueFIPMinIP {
			lgNum += fip * l.IP
			lgIP += l.IP
		}
		// Relief-only arms define the bullpen aggregate.
		if l.GamesStarted == 0 && l.Team != "" {
			penNum[l.Team] += fip * l.IP
			penIP[l.Team] += l.IP
		}
	}

	if lgIP > 0 {
		t.leagueFIP = lgNum / lgIP
	} else {
		t.leagueFIP = fallbackLeagueFIP
	}

	var allPenNum, allPenIP float64
	for team, ip := range penIP {
		if ip > 0 {
			t.bullpens[team] = penNum[team] / ip
			allPenNum += penNum[team]
			allPenIP += ip
		}
	}
	if allPenIP > 0 {
		t.leaguePen = allPenNum / allPenIP
	} else {
		t.leaguePen = t.leagueFIP
	}

	return t
}

// SetRolling records a starter's recent-form FIP, typically computed over
// their last handful of starts from game logs.
func (t *FIPTable) SetRolling(pitcherID int, fip float64, starts int) {
	t.rolling[pitcherID] = rollingEntry{fip: fip, starts: starts}
}

// RollingFIP implements adjust.FIPSource.
func (t *FIPTable) RollingFIP(pitcherID int, _ time.Time) (float64, int, bool) {
	e, ok := t.rolling[pitcherID]
	return e.fip, e.starts, ok
}

// SeasonFIP implements adjust.FIPSource.
func (t *FIPTable) SeasonFIP(pitcherID int) (models.PitcherQuality, bool) {
	q, ok := t.byID[pitcherID]
	return q, ok
}

// SeasonFIPByName implements adjust.FIPSource. The name must already be
// normalized.
func (t *FIPTable) SeasonFIPByName(name string) (models.PitcherQuality, bool) {
	q, ok := t.byName[name]
	return q, ok
}

// LeagueFIP implements adjust.FIPSource.
func (t *FIPTable) LeagueFIP() float64 { return t.leagueFIP }

// BullpenFIP implements adjust.BullpenSource.
func (t *FIPTable) BullpenFIP(team string) (float64, bool) {
	f, ok := t.bullpens[team]
	return f, ok
}

// LeagueBullpenFIP implements adjust.BullpenSource.
func (t *FIPTable) LeagueBullpenFIP() float64 { return t.leaguePen }

// Pitchers returns every season line as quality records, for persistence.
func (t *FIPTable) Pitchers() []models.PitcherQuality {
	out := make([]models.PitcherQuality, 0, len(t.byID))
	for _, q := range t.byID {
		out = append(out, q)
	}
	return out
}

package datasource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/pennantcast/internal/adjust"
	"github.com/yourusername/pennantcast/internal/league"
)

// InjuryList is a static team → WAR-lost table, loaded from a JSON file
// maintained alongside the config. The Stats API exposes IL placements but
// not player value, so the WAR numbers are curated by hand.
type InjuryList struct {
	warLost map[string]float64
}

var _ adjust.InjurySource = (*InjuryList)(nil)

// LoadInjuryList reads a {"TEAM": war_lost} JSON file. A missing path
// returns an empty list, which disables injury adjustments gracefully.
func LoadInjuryList(path string) (*InjuryList, error) {
	if path == "" {
		return &InjuryList{warLost: map[string]float64{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &InjuryList{warLost: map[string]float64{}}, nil
		}
		return nil, fmt.Errorf("failed to read injury list: %w", err)
	}

	raw := make(map[string]float64)
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse injury list: %w", err)
	}

	warLost := make(map[string]float64, len(raw))
	for team, war := range raw {
		warLost[league.Normalize(team)] = war
	}
	return &InjuryList{warLost: warLost}, nil
}

// NewInjuryList builds an injury list from an in-memory table.
func NewInjuryList(warLost map[string]float64) *InjuryList {
	normalized := make(map[string]float64, len(warLost))
	for team, war := range warLost {
		normalized[league.Normalize(team)] = war
	}
	return &InjuryList{warLost: normalized}
}

// WARLost implements adjust.InjurySource.
func (l *InjuryList) WARLost(team string) (float64, bool) {
	war, ok := l.warLost[league.Normalize(team)]
	return war, ok
}

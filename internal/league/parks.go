package league

// Park factors are 5-year rolling Basic factors from FanGraphs.
// 100 = neutral, >100 = hitter-friendly, <100 = pitcher-friendly.
var parkFactors = map[int]map[string]float64{
	2023: {
		"LAA": 101, "BAL": 99, "BOS": 104, "CWS": 100, "CLE": 99,
		"DET": 100, "KC": 103, "MIN": 101, "NYY": 99, "ATH": 96,
		"SEA": 94, "TB": 96, "TEX": 99, "TOR": 99,
		"AZ": 101, "ATL": 100, "CHC": 98, "CIN": 105, "COL": 113,
		"MIA": 101, "HOU": 99, "LAD": 99, "MIL": 99, "WSH": 100,
		"NYM": 96, "PHI": 101, "PIT": 102, "STL": 98, "SD": 96, "SF": 97,
	},
	2024: {
		"LAA": 101, "BAL": 99, "BOS": 104, "CWS": 100, "CLE": 99,
		"DET": 100, "KC": 103, "MIN": 101, "NYY": 99, "ATH": 96,
		"SEA": 94, "TB": 96, "TEX": 99, "TOR": 99,
		"AZ": 101, "ATL": 100, "CHC": 98, "CIN": 105, "COL": 113,
		"MIA": 101, "HOU": 99, "LAD": 99, "MIL": 99, "WSH": 100,
		"NYM": 96, "PHI": 101, "PIT": 102, "STL": 98, "SD": 96, "SF": 97,
	},
	2025: {
		"LAA": 101, "BAL": 99, "BOS": 104, "CWS": 100, "CLE": 99,
		"DET": 100, "KC": 103, "MIN": 101, "NYY": 99, "ATH": 103,
		"SEA": 94, "TB": 101, "TEX": 99, "TOR": 99,
		"AZ": 101, "ATL": 100, "CHC": 98, "CIN": 105, "COL": 113,
		"MIA": 101, "HOU": 99, "LAD": 99, "MIL": 99, "WSH": 100,
		"NYM": 96, "PHI": 101, "PIT": 102, "STL": 98, "SD": 96, "SF": 97,
	},
}

const defaultParkSeason = 2024

// ParkFactor returns the park factor for a team's home park in a season.
// Unknown seasons fall back to the default table; ok is false only for
// unknown teams.
func ParkFactor(team string, season int) (float64, bool) {
	factors, ok := parkFactors[season]
	if !ok {
		factors = parkFactors[defaultParkSeason]
	}
	pf, ok := factors[Normalize(team)]
	return pf, ok
}

// Parks adapts the park-factor table to the adjustment model's park source
// interface, pinned to one season.
type Parks struct {
	Season int
}

// ParkFactor implements adjust.ParkSource.
func (p Parks) ParkFactor(team string) (float64, bool) {
	return ParkFactor(team, p.Season)
}

// Package league holds the static MLB league structure: team codes, the
// league/division partition, park factors, and ballpark geography. This is
// the single source of truth for team identity across the engine.
package league

import "sort"

// Canonical team codes follow the MLB Stats API convention.
const (
	AmericanLeague = "AL"
	NationalLeague = "NL"
)

// TeamLeague maps every current team to its league.
var TeamLeague = map[string]string{
	"BAL": "AL", "BOS": "AL", "NYY": "AL", "TB": "AL", "TOR": "AL",
	"CWS": "AL", "CLE": "AL", "DET": "AL", "KC": "AL", "MIN": "AL",
	"HOU": "AL", "LAA": "AL", "ATH": "AL", "SEA": "AL", "TEX": "AL",
	"ATL": "NL", "MIA": "NL", "NYM": "NL", "PHI": "NL", "WSH": "NL",
	"CHC": "NL", "CIN": "NL", "MIL": "NL", "PIT": "NL", "STL": "NL",
	"AZ": "NL", "COL": "NL", "LAD": "NL", "SD": "NL", "SF": "NL",
}

// TeamDivision maps every current team to its division.
var TeamDivision = map[string]string{
	"BAL": "AL East", "BOS": "AL East", "NYY": "AL East", "TB": "AL East", "TOR": "AL East",
	"CWS": "AL Central", "CLE": "AL Central", "DET": "AL Central", "KC": "AL Central", "MIN": "AL Central",
	"HOU": "AL West", "LAA": "AL West", "ATH": "AL West", "SEA": "AL West", "TEX": "AL West",
	"ATL": "NL East", "MIA": "NL East", "NYM": "NL East", "PHI": "NL East", "WSH": "NL East",
	"CHC": "NL Central", "CIN": "NL Central", "MIL": "NL Central", "PIT": "NL Central", "STL": "NL Central",
	"AZ": "NL West", "COL": "NL West", "LAD": "NL West", "SD": "NL West", "SF": "NL West",
}

// franchiseMap carries relocated and renamed franchises forward to their
// current code so ratings survive historical replays. Keys cover Retrosheet
// codes and the handful of alternate modern abbreviations.
var franchiseMap = map[string]string{
	// American League
	"NYA": "NYY", "CHA": "CWS", "KCA": "KC", "TBA": "TB",
	"ANA": "LAA", "CAL": "LAA",
	"SE1": "MIL", "ML3": "MIL",
	"WS1": "MIN", "WS2": "TEX",
	"PHA": "ATH", "KC2": "ATH", "OAK": "ATH",
	"SLA": "BAL", "ML2": "BAL",
	// National League
	"NYN": "NYM", "CHN": "CHC",
	"SFN": "SF", "NY1": "SF",
	"LAN": "LAD", "BRO": "LAD",
	"SDN": "SD", "SLN": "STL",
	"BSN": "ATL", "MLN": "ATL",
	"FLO": "MIA",
	"MON": "WSH", "WAS": "WSH", "WSN": "WSH",
	// Alternate modern codes
	"ARI": "AZ", "SDP": "SD", "SFG": "SF", "KCR": "KC",
	"TBR": "TB", "CHW": "CWS",
}

// Normalize maps any historical or alternate team code to its current
// franchise code. Unknown codes pass through unchanged.
func Normalize(code string) string {
	if current, ok := franchiseMap[code]; ok {
		return current
	}
	return code
}

// Known reports whether code names one of the 30 current teams.
func Known(code string) bool {
	_, ok := TeamLeague[code]
	return ok
}

// Teams returns the 30 current team codes sorted ascending.
func Teams() []string {
	teams := make([]string, 0, len(TeamLeague))
	for t := range TeamLeague {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams
}

// LeagueTeams returns the sorted team codes belonging to one league.
func LeagueTeams(leagueCode string) []string {
	teams := make([]string, 0, 15)
	for t, l := range TeamLeague {
		if l == leagueCode {
			teams = append(teams, t)
		}
	}
	sort.Strings(teams)
	return teams
}

// Structure is the division partition of one league, the input the
// playoff-odds calculator qualifies teams against.
type Structure struct {
	League        string
	Divisions     map[string][]string
	WildcardSlots int
}

// NewStructure builds the division partition for a league. wildcardSlots is
// the number of non-division-winner qualifiers (3 in the current format).
func NewStructure(leagueCode string, wildcardSlots int) Structure {
	divisions := make(map[string][]string)
	for _, t := range LeagueTeams(leagueCode) {
		div := TeamDivision[t]
		divisions[div] = append(divisions[div], t)
	}
	for _, teams := range divisions {
		sort.Strings(teams)
	}
	return Structure{League: leagueCode, Divisions: divisions, WildcardSlots: wildcardSlots}
}

// Teams returns every team in the structure, sorted.
func (s Structure) Teams() []string {
	teams := make([]string, 0, 15)
	for _, div := range s.Divisions {
		teams = append(teams, div...)
	}
	sort.Strings(teams)
	return teams
}

// FieldSize is the number of playoff qualifiers per trial.
func (s Structure) FieldSize() int {
	return len(s.Divisions) + s.WildcardSlots
}

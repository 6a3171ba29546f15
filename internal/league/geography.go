package league

import "math"

// Ballpark holds the location data needed for travel-fatigue detection.
type Ballpark struct {
	Name      string
	City      string
	Lat       float64
	Lon       float64
	UTCOffset int
}

// Ballparks maps team code to home park. The Athletics play at Sutter Health
// Park (Sacramento) starting 2025.
var Ballparks = map[string]Ballpark{
	"AZ":  {Name: "Chase Field", City: "Phoenix, AZ", Lat: 33.4455, Lon: -112.0667, UTCOffset: -7},
	"ATL": {Name: "Truist Park", City: "Atlanta, GA", Lat: 33.8907, Lon: -84.4677, UTCOffset: -5},
	"BAL": {Name: "Oriole Park at Camden Yards", City: "Baltimore, MD", Lat: 39.2838, Lon: -76.6216, UTCOffset: -5},
	"BOS": {Name: "Fenway Park", City: "Boston, MA", Lat: 42.3467, Lon: -71.0972, UTCOffset: -5},
	"CHC": {Name: "Wrigley Field", City: "Chicago, IL", Lat: 41.9484, Lon: -87.6553, UTCOffset: -6},
	"CIN": {Name: "Great American Ball Park", City: "Cincinnati, OH", Lat: 39.0974, Lon: -84.5082, UTCOffset: -5},
	"CLE": {Name: "Progressive Field", City: "Cleveland, OH", Lat: 41.4962, Lon: -81.6852, UTCOffset: -5},
	"COL": {Name: "Coors Field", City: "Denver, CO", Lat: 39.7559, Lon: -104.9942, UTCOffset: -7},
	"CWS": {Name: "Guaranteed Rate Field", City: "Chicago, IL", Lat: 41.8299, Lon: -87.6338, UTCOffset: -6},
	"DET": {Name: "Comerica Park", City: "Detroit, MI", Lat: 42.3390, Lon: -83.0485, UTCOffset: -5},
	"HOU": {Name: "Minute Maid Park", City: "Houston, TX", Lat: 29.7573, Lon: -95.3555, UTCOffset: -6},
	"KC":  {Name: "Kauffman Stadium", City: "Kansas City, MO", Lat: 39.0517, Lon: -94.4803, UTCOffset: -6},
	"LAA": {Name: "Angel Stadium", City: "Anaheim, CA", Lat: 33.8003, Lon: -117.8827, UTCOffset: -8},
	"LAD": {Name: "Dodger Stadium", City: "Los Angeles, CA", Lat: 34.0739, Lon: -118.2400, UTCOffset: -8},
	"MIA": {Name: "LoanDepot Park", City: "Miami, FL", Lat: 25.7781, Lon: -80.2196, UTCOffset: -5},
	"MIL": {Name: "American Family Field", City: "Milwaukee, WI", Lat: 43.0280, Lon: -87.9712, UTCOffset: -6},
	"MIN": {Name: "Target Field", City: "Minneapolis, MN", Lat: 44.9818, Lon: -93.2775, UTCOffset: -6},
	"NYM": {Name: "Citi Field", City: "New York, NY", Lat: 40.7571, Lon: -73.8458, UTCOffset: -5},
	"NYY": {Name: "Yankee Stadium", City: "New York, NY", Lat: 40.8296, Lon: -73.9262, UTCOffset: -5},
	"ATH": {Name: "Sutter Health Park", City: "Sacramento, CA", Lat: 38.5802, Lon: -121.5111, UTCOffset: -8},
	"PHI": {Name: "Citizens Bank Park", City: "Philadelphia, PA", Lat: 39.9061, Lon: -75.1665, UTCOffset: -5},
	"PIT": {Name: "PNC Park", City: "Pittsburgh, PA", Lat: 40.4469, Lon: -80.0057, UTCOffset: -5},
	"SD":  {Name: "Petco Park", City: "San Diego, CA", Lat: 32.7076, Lon: -117.1570, UTCOffset: -8},
	"SEA": {Name: "T-Mobile Park", City: "Seattle, WA", Lat: 47.5914, Lon: -122.3325, UTCOffset: -8},
	"SF":  {Name: "Oracle Park", City: "San Francisco, CA", Lat: 37.7786, Lon: -122.3893, UTCOffset: -8},
	"STL": {Name: "Busch Stadium", City: "St. Louis, MO", Lat: 38.6226, Lon: -90.1928, UTCOffset: -6},
	"TB":  {Name: "Tropicana Field", City: "St. Petersburg, FL", Lat: 27.7682, Lon: -82.6534, UTCOffset: -5},
	"TEX": {Name: "Globe Life Field", City: "Arlington, TX", Lat: 32.7512, Lon: -97.0832, UTCOffset: -6},
	"TOR": {Name: "Rogers Centre", City: "Toronto, ON", Lat: 43.6414, Lon: -79.3894, UTCOffset: -5},
	"WSH": {Name: "Nationals Park", City: "Washington, DC", Lat: 38.8730, Lon: -77.0074, UTCOffset: -5},
}

const earthRadiusMiles = 3958.8

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1, lon1 = lat1*math.Pi/180, lon1*math.Pi/180
	lat2, lon2 = lat2*math.Pi/180, lon2*math.Pi/180
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dlon/2), 2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}

// Distance returns the great-circle distance in miles between two teams'
// home parks. ok is false when either park is unknown.
func Distance(teamA, teamB string) (float64, bool) {
	a, okA := Ballparks[Normalize(teamA)]
	b, okB := Ballparks[Normalize(teamB)]
	if !okA || !okB {
		return 0, false
	}
	return haversine(a.Lat, a.Lon, b.Lat, b.Lon), true
}

// UTCOffset returns a team's home-park UTC offset in hours.
func UTCOffset(team string) (int, bool) {
	p, ok := Ballparks[Normalize(team)]
	if !ok {
		return 0, false
	}
	return p.UTCOffset, true
}

// Geo adapts the package tables to the adjustment model's geography
// interface.
type Geo struct{}

// Distance implements adjust.Geography.
func (Geo) Distance(a, b string) (float64, bool) { return Distance(a, b) }

// UTCOffset implements adjust.Geography.
func (Geo) UTCOffset(team string) (int, bool) { return UTCOffset(team) }

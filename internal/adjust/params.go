// Package adjust converts game context (starter quality, bullpen quality,
// park, travel fatigue, injuries) into rating-equivalent point adjustments
// and combines them into a final, shrinkage-corrected win probability.
package adjust

// Params holds every adjustment-model weight as explicit configuration.
// Sweep runs mutate copies of this struct; there are no hardcoded mode
// variants.
type Params struct {
	// FIPWeight is rating points credited per FIP unit below league average
	// for the starting pitcher.
	FIPWeight float64 `json:"fip_weight"`
	// FIPPriorIP is the innings-worth of league-average prior blended into a
	// starter's season FIP. Larger means more shrinkage; FIP stabilizes
	// around 50-60 IP.
	FIPPriorIP float64 `json:"fip_prior_ip"`
	// RollingMinStarts is the minimum prior starts required before a rolling
	// FIP is preferred over the season aggregate.
	RollingMinStarts int `json:"rolling_min_starts"`
	// BullpenWeight mirrors FIPWeight for team bullpen FIP. Bullpens pitch a
	// minority of innings, so the weight is lower.
	BullpenWeight float64 `json:"bullpen_weight"`
	// ParkScale blends the park multiplier with 1.0: 1 = full park scaling,
	// 0 = parks ignored.
	ParkScale float64 `json:"park_scale"`
	// TravelPenalty is the flat rating deduction for significant eastward
	// travel since the previous game.
	TravelPenalty       float64 `json:"travel_penalty"`
	TravelDistanceMiles float64 `json:"travel_distance_miles"`
	TravelTZShiftHours  int     `json:"travel_tz_shift_hours"`
	// WARWeight is rating points deducted per positive WAR lost to injury.
	WARWeight float64 `json:"war_weight"`
	// Shrinkage pulls the final probability toward 0.5 to correct
	// rating-model overconfidence. Must be in [0, 0.5).
	Shrinkage float64 `json:"shrinkage"`

	UseStarter  bool `json:"use_starter"`
	UseBullpen  bool `json:"use_bullpen"`
	UsePark     bool `json:"use_park"`
	UseTravel   bool `json:"use_travel"`
	UseInjuries bool `json:"use_injuries"`
}

// DefaultParams returns the sweep-optimal weights for the full model.
func DefaultParams() Params {
	return Params{
		FIPWeight:           50,
		FIPPriorIP:          50,
		RollingMinStarts:    3,
		BullpenWeight:       15,
		ParkScale:           1.0,
		TravelPenalty:       10,
		TravelDistanceMiles: 1000,
		TravelTZShiftHours:  2,
		WARWeight:           5,
		Shrinkage:           0.16,
		UseStarter:          true,
		UseBullpen:          true,
		UsePark:             true,
		UseTravel:           true,
		UseInjuries:         true,
	}
}

package playoffs

import "sort"

// Record is one team's actual win-loss line.
type Record struct {
	Team   string
	Wins   int
	Losses int
}

// Standing is a Record positioned against the group leader.
type Standing struct {
	Record
	WinPct    float64
	GamesBack float64
}

// Standings orders a group of records (a division, or a league for the
// wildcard chase) and computes games back of the leader. Zero-game records
// sort last.
func Standings(records []Record) []Standing {
	out := make([]Standing, len(records))
	for i, r := range records {
		s := Standing{Record: r}
		if games := r.Wins + r.Losses; games > 0 {
			s.WinPct = float64(r.Wins) / float64(games)
		}
		out[i] = s
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].WinPct != out[b].WinPct {
			return out[a].WinPct > out[b].WinPct
		}
		return out[a].Team < out[b].Team
	})
	if len(out) == 0 {
		return out
	}
	leader := out[0]
	for i := range out {
		out[i].GamesBack = float64(leader.Wins-out[i].Wins+out[i].Losses-leader.Losses) / 2
	}
	return out
}

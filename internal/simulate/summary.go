package simulate

import (
	"math"
	"sort"

	"github.com/yourusername/pennantcast/internal/models"
)

// Summarize reduces the win matrix to per-team distribution statistics,
// ordered by average wins descending.
func Summarize(m *Matrix) []models.WinProjection {
	out := make([]models.WinProjection, 0, len(m.Teams))
	column := make([]float64, m.Trials())
	for i, team := range m.Teams {
		for trial := range m.Wins {
			column[trial] = float64(m.Wins[trial][i])
		}
		sort.Float64s(column)
		out = append(out, models.WinProjection{
			Team:       team,
			AvgWins:    mean(column),
			MedianWins: percentile(column, 50),
			StdDev:     stddev(column),
			P10:        percentile(column, 10),
			P25:        percentile(column, 25),
			P75:        percentile(column, 75),
			P90:        percentile(column, 90),
		})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].AvgWins != out[b].AvgWins {
			return out[a].AvgWins > out[b].AvgWins
		}
		return out[a].Team < out[b].Team
	})
	return out
}

func mean(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum / float64(len(sorted))
}

func stddev(sorted []float64) float64 {
	if len(sorted) < 2 {
		return 0
	}
	m := mean(sorted)
	var ss float64
	for _, v := range sorted {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(sorted)))
}

// percentile linearly interpolates between order statistics, matching the
// convention the projection dashboards already use.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

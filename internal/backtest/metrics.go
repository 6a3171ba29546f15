package backtest

import (
	"math"
)

// Metrics are the calibration scores for one replay.
type Metrics struct {
	Games    int     `json:"games"`
	Brier    float64 `json:"brier"`
	LogLoss  float64 `json:"log_loss"`
	Accuracy float64 `json:"accuracy"`
	// Calibration buckets predictions into probability deciles. A
	// well-calibrated model's observed rate tracks its mean prediction in
	// every bucket.
	Calibration []Bucket `json:"calibration"`
}

// Bucket is one probability decile.
type Bucket struct {
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	Count         int     `json:"count"`
	MeanPredicted float64 `json:"mean_predicted"`
	ObservedRate  float64 `json:"observed_rate"`
}

type prediction struct {
	p   float64
	won bool
}

// Scorer accumulates home-win predictions against outcomes.
type Scorer struct {
	preds []prediction
}

// Add records one scored game.
func (s *Scorer) Add(p float64, homeWon bool) {
	s.preds = append(s.preds, prediction{p: p, won: homeWon})
}

// Len returns the number of scored games.
func (s *Scorer) Len() int { return len(s.preds) }

// Metrics computes Brier score, ε-clamped log loss, accuracy, and decile
// calibration over everything added so far.
func (s *Scorer) Metrics(epsilon float64) Metrics {
	m := Metrics{Games: len(s.preds)}
	if len(s.preds) == 0 {
		return m
	}

	buckets := make([]Bucket, 10)
	sums := make([]float64, 10)
	wins := make([]int, 10)
	for i := range buckets {
		buckets[i].Low = float64(i) / 10
		buckets[i].High = float64(i+1) / 10
	}

	var brier, logLoss float64
	correct := 0
	for _, pr := range s.preds {
		outcome := 0.0
		if pr.won {
			outcome = 1.0
		}
		d := pr.p - outcome
		brier += d * d

		clamped := math.Min(math.Max(pr.p, epsilon), 1-epsilon)
		if pr.won {
			logLoss += -math.Log(clamped)
		} else {
			logLoss += -math.Log(1 - clamped)
		}

		// Exactly 0.5 counts as a home pick.
		if (pr.p >= 0.5) == pr.won {
			correct++
		}

		b := int(pr.p * 10)
		if b > 9 {
			b = 9
		}
		buckets[b].Count++
		sums[b] += pr.p
		if pr.won {
			wins[b]++
		}
	}

	n := float64(len(s.preds))
	m.Brier = brier / n
	m.LogLoss = logLoss / n
	m.Accuracy = float64(correct) / n
	for i := range buckets {
		if buckets[i].Count > 0 {
			buckets[i].MeanPredicted = sums[i] / float64(buckets[i].Count)
			buckets[i].ObservedRate = float64(wins[i]) / float64(buckets[i].Count)
		}
	}
	m.Calibration = buckets
	return m
}

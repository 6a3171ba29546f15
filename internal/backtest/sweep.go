package backtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/models"
	"github.com/yourusername/pennantcast/internal/rating"
)

// Grid is a Cartesian parameter sweep. Empty dimensions keep the base
// config's value, so a grid varying only Shrinkage stays small.
type Grid struct {
	FIPWeights     []float64
	BullpenWeights []float64
	ParkScales     []float64
	Shrinkages     []float64
	FadeGames      []int
	Curves         []rating.Curve
	MOVCaps        []float64
}

// Configs expands the grid against a base configuration.
func (g Grid) Configs(base Config) []Config {
	fipW := orFloats(g.FIPWeights, base.Adjust.FIPWeight)
	penW := orFloats(g.BullpenWeights, base.Adjust.BullpenWeight)
	parkS := orFloats(g.ParkScales, base.Adjust.ParkScale)
	shrink := orFloats(g.Shrinkages, base.Adjust.Shrinkage)
	fades := g.FadeGames
	if len(fades) == 0 {
		fades = []int{base.FadeGames}
	}
	curves := g.Curves
	if len(curves) == 0 {
		curves = []rating.Curve{base.Curve}
	}
	caps := orFloats(g.MOVCaps, base.Rating.MOVCap)

	var out []Config
	for _, fw := range fipW {
		for _, bw := range penW {
			for _, ps := range parkS {
				for _, s := range shrink {
					for _, fg := range fades {
						for _, c := range curves {
							for _, mc := range caps {
								cfg := base
								cfg.Adjust.FIPWeight = fw
								cfg.Adjust.BullpenWeight = bw
								cfg.Adjust.ParkScale = ps
								cfg.Adjust.Shrinkage = s
								cfg.FadeGames = fg
								cfg.Curve = c
								cfg.Rating.MOVCap = mc
								out = append(out, cfg)
							}
						}
					}
				}
			}
		}
	}
	return out
}

func orFloats(vals []float64, fallback float64) []float64 {
	if len(vals) == 0 {
		return []float64{fallback}
	}
	return vals
}

// Failure records a configuration that could not be scored.
type Failure struct {
	Config Config
	Err    error
}

// SweepResult holds every scored configuration plus isolated failures.
type SweepResult struct {
	Results  []Result
	Failures []Failure
	// Best is the winner by log loss, ties broken by Brier score. Nil when
	// nothing scored.
	Best *Result
}

// Sweep scores every grid configuration against the same game set, spreading
// configurations across a worker pool. One bad configuration is recorded as
// a Failure and the sweep continues.
func (h *Harness) Sweep(ctx context.Context, games []models.Game, base Config, grid Grid, workers int) (SweepResult, error) {
	configs := grid.Configs(base)
	if len(configs) == 0 {
		return SweepResult{}, fmt.Errorf("sweep: empty grid")
	}
	if workers <= 0 {
		workers = 4
	}
	if workers > len(configs) {
		workers = len(configs)
	}

	jobs := make(chan Config)
	var mu sync.Mutex
	var out SweepResult
	var wg sync.WaitGroup

	runOne := func(cfg Config) (res Result, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sweep config panicked: %v", r)
			}
		}()
		return h.Run(ctx, games, cfg)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cfg := range jobs {
				res, err := runOne(cfg)
				mu.Lock()
				if err != nil {
					out.Failures = append(out.Failures, Failure{Config: cfg, Err: err})
					h.log.WithError(err).Warn("Sweep configuration failed")
				} else {
					out.Results = append(out.Results, res)
				}
				mu.Unlock()
			}
		}()
	}

	for _, cfg := range configs {
		select {
		case jobs <- cfg:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return out, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	for i := range out.Results {
		if out.Best == nil || better(out.Results[i].Metrics, out.Best.Metrics) {
			out.Best = &out.Results[i]
		}
	}
	h.log.WithFields(logrus.Fields{
		"configs":  len(configs),
		"scored":   len(out.Results),
		"failures": len(out.Failures),
	}).Info("Parameter sweep complete")
	return out, nil
}

func better(a, b Metrics) bool {
	if a.LogLoss != b.LogLoss {
		return a.LogLoss < b.LogLoss
	}
	return a.Brier < b.Brier
}

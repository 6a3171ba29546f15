// Package metrics provides the centralized Prometheus registry for the
// projection service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	GamesRatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "games_rated_total",
		Help:      "Total number of completed games applied to ratings",
	})
	SimulationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "simulations_total",
		Help:      "Total number of season simulations run",
	})
	BacktestRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest replays completed",
	})
	SweepConfigsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "sweep_configs_total",
		Help:      "Total number of sweep configurations scored",
	})
	SweepFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "sweep_failures_total",
		Help:      "Total number of sweep configurations that failed",
	})
	StatsAPIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pennantcast",
		Name:      "stats_api_requests_total",
		Help:      "Total Stats API requests by outcome",
	}, []string{"outcome"})
)

// Gauge metrics
var (
	TeamRating = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "pennantcast",
		Name:      "team_rating",
		Help:      "Current rating per team",
	}, []string{"team"})
	LastUpdateTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pennantcast",
		Name:      "last_update_timestamp_seconds",
		Help:      "Unix time of the last successful rating update",
	})
)

// Histogram metrics
var (
	SimulationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pennantcast",
		Name:      "simulation_duration_seconds",
		Help:      "Duration of Monte Carlo season simulations in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pennantcast",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest replays in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(GamesRatedTotal)
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(SweepConfigsTotal)
		registry.MustRegister(SweepFailuresTotal)
		registry.MustRegister(StatsAPIRequestsTotal)

		registry.MustRegister(TeamRating)
		registry.MustRegister(LastUpdateTimestamp)

		registry.MustRegister(SimulationDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordGameRated records one rating update.
func RecordGameRated() {
	GamesRatedTotal.Inc()
}

// RecordSimulation records a completed simulation and its duration.
func RecordSimulation(durationSeconds float64) {
	SimulationsTotal.Inc()
	SimulationDuration.Observe(durationSeconds)
}

// RecordBacktest records a completed backtest replay and its duration.
func RecordBacktest(durationSeconds float64) {
	BacktestRunsTotal.Inc()
	BacktestDuration.Observe(durationSeconds)
}

// RecordSweepConfig records one scored sweep configuration.
func RecordSweepConfig() {
	SweepConfigsTotal.Inc()
}

// RecordSweepFailure records one failed sweep configuration.
func RecordSweepFailure() {
	SweepFailuresTotal.Inc()
}

// UpdateTeamRating updates a team's rating gauge.
func UpdateTeamRating(team string, value float64) {
	TeamRating.WithLabelValues(team).Set(value)
}

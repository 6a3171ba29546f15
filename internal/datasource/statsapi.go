package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/metrics"
	"github.com/yourusername/pennantcast/internal/models"
)

// StatsAPIClient fetches schedules and pitching stats from the MLB Stats
// API. Responses are cached; the schedule changes at most a few times a day.
type StatsAPIClient struct {
	baseURL string
	http    *RateLimitedHTTPClient
	cache   *gocache.Cache
	log     logrus.FieldLogger
}

// NewStatsAPIClient creates a Stats API client.
func NewStatsAPIClient(baseURL string, httpClient *RateLimitedHTTPClient, cacheTTL time.Duration, log logrus.FieldLogger) *StatsAPIClient {
	return &StatsAPIClient{
		baseURL: baseURL,
		http:    httpClient,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		log:     log,
	}
}

// scheduleResponse mirrors the subset of /schedule we consume.
type scheduleResponse struct {
	Dates []struct {
		Date  string `json:"date"`
		Games []struct {
			GameType string `json:"gameType"`
			Status   struct {
				AbstractGameState string `json:"abstractGameState"`
			} `json:"status"`
			Teams struct {
				Home scheduleSide `json:"home"`
				Away scheduleSide `json:"away"`
			} `json:"teams"`
			Venue struct {
				Name string `json:"name"`
			} `json:"venue"`
		} `json:"games"`
	} `json:"dates"`
}

type scheduleSide struct {
	Score *int `json:"score"`
	Team  struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	ProbablePitcher *struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"probablePitcher"`
}

// Schedule fetches the regular-season schedule for a season, completed and
// scheduled games alike.
func (c *StatsAPIClient) Schedule(ctx context.Context, season int) ([]models.Game, error) {
	cacheKey := fmt.Sprintf("schedule:%d", season)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.Game), nil
	}

	endpoint := fmt.Sprintf(
		"%s/schedule?sportId=1&season=%d&gameType=R&hydrate=%s",
		c.baseURL, season, url.QueryEscape("team,probablePitcher"),
	)
	var payload scheduleResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}

	var games []models.Game
	for _, d := range payload.Dates {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule date %q: %w", d.Date, err)
		}
		for _, g := range d.Games {
			home := league.Normalize(g.Teams.Home.Team.Abbreviation)
			away := league.Normalize(g.Teams.Away.Team.Abbreviation)
			if !league.Known(home) || !league.Known(away) {
				// Exhibition opponents and split-squad entries.
				continue
			}
			game := models.Game{
				Date:      date,
				HomeTeam:  home,
				AwayTeam:  away,
				VenueTeam: home,
			}
			if g.Status.AbstractGameState == "Final" {
				game.HomeScore = g.Teams.Home.Score
				game.AwayScore = g.Teams.Away.Score
			}
			if p := g.Teams.Home.ProbablePitcher; p != nil {
				id := p.ID
				game.HomeStarterID = &id
				game.HomeStarterName = p.FullName
			}
			if p := g.Teams.Away.ProbablePitcher; p != nil {
				id := p.ID
				game.AwayStarterID = &id
				game.AwayStarterName = p.FullName
			}
			games = append(games, game)
		}
	}

	if len(games) == 0 {
		return nil, fmt.Errorf("season %d: %w", season, models.ErrNoSchedule)
	}

	c.cache.Set(cacheKey, games, gocache.DefaultExpiration)
	c.log.WithFields(logrus.Fields{"season": season, "games": len(games)}).Debug("Fetched schedule")
	return games, nil
}

// statsResponse mirrors the subset of /stats we consume.
type statsResponse struct {
	Stats []struct {
		Splits []struct {
			Player struct {
				ID       int    `json:"id"`
				FullName string `json:"fullName"`
			} `json:"player"`
			Team struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"team"`
			Stat struct {
				HomeRuns       float64 `json:"homeRuns"`
				BaseOnBalls    float64 `json:"baseOnBalls"`
				HitByPitch     float64 `json:"hitByPitch"`
				StrikeOuts     float64 `json:"strikeOuts"`
				InningsPitched string  `json:"inningsPitched"`
				GamesStarted   int     `json:"gamesStarted"`
				ERA            string  `json:"era"`
			} `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// PitchingStats fetches every pitcher's season counting stats.
func (c *StatsAPIClient) PitchingStats(ctx context.Context, season int) ([]PitchingLine, error) {
	cacheKey := fmt.Sprintf("pitching:%d", season)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]PitchingLine), nil
	}

	endpoint := fmt.Sprintf(
		"%s/stats?stats=season&group=pitching&season=%d&playerPool=all&limit=2000&hydrate=team",
		c.baseURL, season,
	)
	var payload statsResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("failed to fetch pitching stats: %w", err)
	}

	var lines []PitchingLine
	for _, group := range payload.Stats {
		for _, split := range group.Splits {
			ip, err := ParseInnings(split.Stat.InningsPitched)
			if err != nil {
				c.log.WithError(err).WithField("pitcher", split.Player.FullName).
					Warn("Skipping pitcher with unparseable innings")
				continue
			}
			lines = append(lines, PitchingLine{
				PitcherID:    split.Player.ID,
				Name:         split.Player.FullName,
				Team:         league.Normalize(split.Team.Abbreviation),
				HomeRuns:     split.Stat.HomeRuns,
				Walks:        split.Stat.BaseOnBalls,
				HitByPitch:   split.Stat.HitByPitch,
				Strikeouts:   split.Stat.StrikeOuts,
				IP:           ip,
				GamesStarted: split.Stat.GamesStarted,
			})
		}
	}

	c.cache.Set(cacheKey, lines, gocache.DefaultExpiration)
	c.log.WithFields(logrus.Fields{"season": season, "pitchers": len(lines)}).Debug("Fetched pitching stats")
	return lines, nil
}

func (c *StatsAPIClient) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		metrics.StatsAPIRequestsTotal.WithLabelValues("error").Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.StatsAPIRequestsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("stats api returned %d for %s", resp.StatusCode, endpoint)
	}
	metrics.StatsAPIRequestsTotal.WithLabelValues("success").Inc()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode stats api response: %w", err)
	}
	return nil
}

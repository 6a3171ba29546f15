package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/pennantcast/internal/league"
	"github.com/yourusername/pennantcast/internal/models"
)

// LoadGamesCSV reads historical game logs for backtests. Expected header:
//
//	date,home_team,away_team,home_score,away_score[,home_starter,away_starter]
//
// Dates are YYYY-MM-DD. Team codes run through franchise normalization, so
// Retrosheet-era codes (BRO, MON) resolve to their modern clubs. Rows with
// blank scores load as scheduled games.
func LoadGamesCSV(path string) ([]models.Game, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open game log: %w", err)
	}
	defer f.Close()
	return ReadGames(f)
}

// ReadGames parses game-log CSV from a reader.
func ReadGames(r io.Reader) ([]models.Game, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read game log header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"date", "home_team", "away_team"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("game log missing %q column", required)
		}
	}

	var games []models.Game
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read game log line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", field(record, col, "date"))
		if err != nil {
			return nil, fmt.Errorf("game log line %d: invalid date: %w", line, err)
		}
		home := league.Normalize(field(record, col, "home_team"))
		away := league.Normalize(field(record, col, "away_team"))
		if home == "" || away == "" {
			return nil, fmt.Errorf("game log line %d: missing team code", line)
		}

		g := models.Game{
			Date:            date,
			HomeTeam:        home,
			AwayTeam:        away,
			HomeStarterName: field(record, col, "home_starter"),
			AwayStarterName: field(record, col, "away_starter"),
		}
		if g.HomeScore, err = parseScore(field(record, col, "home_score")); err != nil {
			return nil, fmt.Errorf("game log line %d: %w", line, err)
		}
		if g.AwayScore, err = parseScore(field(record, col, "away_score")); err != nil {
			return nil, fmt.Errorf("game log line %d: %w", line, err)
		}
		games = append(games, g)
	}
	return games, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseScore(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid score %q: %w", s, err)
	}
	return &v, nil
}

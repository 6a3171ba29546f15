package datasource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadGames(t *testing.T) {
	input := `date,home_team,away_team,home_score,away_score,home_starter,away_starter
2024-04-01,NYY,BOS,5,3,Gerrit Cole,Brayan Bello
2024-04-02,BRO,MON,2,7,,
2024-09-30,LAD,SD,,,Yoshinobu Yamamoto,Dylan Cease
`
	games, err := ReadGames(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, games, 3)

	assert.Equal(t, "NYY", games[0].HomeTeam)
	require.NotNil(t, games[0].HomeScore)
	assert.Equal(t, 5, *games[0].HomeScore)
	assert.Equal(t, "Gerrit Cole", games[0].HomeStarterName)
	assert.True(t, games[0].Completed())

	// Franchise continuity: Brooklyn and Montreal map to modern clubs.
	assert.Equal(t, "LAD", games[1].HomeTeam)
	assert.Equal(t, "WSH", games[1].AwayTeam)

	// Blank scores load as a scheduled fixture.
	assert.False(t, games[2].Completed())
	assert.Nil(t, games[2].HomeScore)
}

func TestReadGamesRejectsBadInput(t *testing.T) {
	_, err := ReadGames(strings.NewReader("home_team,away_team\nNYY,BOS\n"))
	assert.Error(t, err, "missing date column")

	_, err = ReadGames(strings.NewReader("date,home_team,away_team\n04/01/2024,NYY,BOS\n"))
	assert.Error(t, err, "wrong date format")

	_, err = ReadGames(strings.NewReader("date,home_team,away_team,home_score,away_score\n2024-04-01,NYY,BOS,five,3\n"))
	assert.Error(t, err, "non-numeric score")
}

func TestLoadGamesCSVMissingFile(t *testing.T) {
	_, err := LoadGamesCSV("does/not/exist.csv")
	assert.Error(t, err)
}

package repository

import (
	"fmt"

	"github.com/yourusername/pennantcast/internal/database"
)

// Repositories holds all repository implementations.
type Repositories struct {
	Rating  RatingRepository
	Game    GameRepository
	Odds    OddsRepository
	Pitcher PitcherRepository
}

// NewRepositories creates and returns all repository implementations.
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Rating:  NewPostgresRatingRepository(db),
		Game:    NewPostgresGameRepository(db),
		Odds:    NewPostgresOddsRepository(db),
		Pitcher: NewPostgresPitcherRepository(db),
	}, nil
}

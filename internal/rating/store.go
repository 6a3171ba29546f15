package rating

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/pennantcast/internal/models"
)

// Store is the durable team → rating map. Components receive a Store by
// injection and never touch process-global state. Missing teams surface
// models.ErrUnknownTeam; substituting a default is a caller policy.
type Store interface {
	Rating(ctx context.Context, team string) (float64, error)
	SetRating(ctx context.Context, team string, value float64, asOf time.Time) error
	All(ctx context.Context) (map[string]float64, error)
}

// MemoryStore is an in-process Store used by backtests and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	ratings map[string]float64
}

// NewMemoryStore seeds an in-memory store from an initial rating map.
func NewMemoryStore(initial map[string]float64) *MemoryStore {
	ratings := make(map[string]float64, len(initial))
	for team, r := range initial {
		ratings[team] = r
	}
	return &MemoryStore{ratings: ratings}
}

// Rating implements Store.
func (s *MemoryStore) Rating(_ context.Context, team string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.ratings[team]
	if !ok {
		return 0, fmt.Errorf("rating for %s: %w", team, models.ErrUnknownTeam)
	}
	return r, nil
}

// SetRating implements Store. Non-finite values are rejected.
func (s *MemoryStore) SetRating(_ context.Context, team string, value float64, _ time.Time) error {
	if !isFinite(value) {
		return fmt.Errorf("set rating for %s: %w", team, models.ErrNonFiniteValue)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratings[team] = value
	return nil
}

// All implements Store.
func (s *MemoryStore) All(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.ratings))
	for team, r := range s.ratings {
		out[team] = r
	}
	return out, nil
}

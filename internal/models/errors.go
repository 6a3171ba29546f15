package models

import "errors"

// Custom errors
var (
	ErrUnknownTeam    = errors.New("unknown team")
	ErrNotFound       = errors.New("record not found")
	ErrNoSchedule     = errors.New("no schedule data available")
	ErrNonFiniteValue = errors.New("non-finite value")
)

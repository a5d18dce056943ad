package models

import "errors"

// Custom errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key violation")
	ErrInvalidID      = errors.New("invalid ID format")
	ErrEmptyRoster    = errors.New("roster has no populated slots")
	ErrRosterTooLarge = errors.New("roster exceeds five slots")
)

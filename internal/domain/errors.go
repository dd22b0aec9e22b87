package domain

import "errors"

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrHouseholdInvalid = errors.New("household is required")
)

// Validation constants
const (
	MaxNameLength = 200
)

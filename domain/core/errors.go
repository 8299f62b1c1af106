package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: profile run", ErrNotFound)

	// Configuration errors fail fast before any computation
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidEpsilon = fmt.Errorf("%w: neighborhood radius must be > 0", ErrInvalidConfig)
	ErrInvalidMinPts  = fmt.Errorf("%w: minimum neighborhood size must be >= 1", ErrInvalidConfig)

	// Input errors
	ErrEmptyInput       = errors.New("nothing to profile")
	ErrColumnMismatch   = errors.New("columns have unequal row counts")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrUnsupportedInput = errors.New("unsupported input format")

	// ErrInsufficientData marks degraded-but-defined outputs, never a hard failure
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewConfigError(param string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, param, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsEmptyInputError(err error) bool {
	return errors.Is(err, ErrEmptyInput)
}

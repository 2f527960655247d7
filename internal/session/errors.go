// ABOUTME: Error values reported by the session controller.
// ABOUTME: Validation failures carry the offending field; lookup misses are never errors.
package session

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("invalid workout input")

	// ErrGeolocationUnavailable means the position could not be acquired.
	// Map-dependent operations stay unusable for the rest of the session.
	ErrGeolocationUnavailable = errors.New("could not get your position")

	// ErrMapNotReady is returned by map-dependent operations before the map is initialised.
	ErrMapNotReady = errors.New("map not ready")

	// ErrNotComposing is returned by Submit when the form is not open.
	ErrNotComposing = errors.New("form is not open")
)

// User-facing alert texts.
const (
	AlertInvalidInput = "Please enter a positive number in the input field"
	AlertNoPosition   = "Could not get your position"
)

// ValidationError describes one rejected form field.
type ValidationError struct {
	Field string
	Input string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q must be %s", e.Field, e.Input, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

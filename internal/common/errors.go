// Package common defines shared sentinel errors used across the story client.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrDrainInProgress = errors.New("drain already in progress")

	// Validation errors.
	ErrMissingID = errors.New("missing id")
)

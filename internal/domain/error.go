package domain

import "errors"

var (
	// Common domain errors
	ErrInvalidArgument = errors.New("invalid argument")

	// Quantum buffer errors
	ErrSourceUnavailable = errors.New("random source unavailable")
	ErrStarvedBuffer     = errors.New("quantum buffer starved")

	// Oracle / delivery errors
	ErrProviderFailure = errors.New("oracle provider failure")
	ErrSinkFailure     = errors.New("sink delivery failure")
)

package domain

import "errors"

var (
	ErrRateNotFound = errors.New("rate not found")
	ErrInvalidRate  = errors.New("rate must be a positive finite number")

	// ErrProviderUnavailable marks a single provider failure. It only triggers fallback.
	ErrProviderUnavailable = errors.New("rate provider unavailable")
	// ErrPersistence marks a failed store read or write.
	ErrPersistence = errors.New("rate persistence failed")
	// ErrRateUnavailable is returned once every tier is exhausted.
	ErrRateUnavailable = errors.New("rate unavailable")
)

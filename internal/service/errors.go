package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDealNotFound is returned when a deal is not found
	ErrDealNotFound = errors.New("deal not found")

	// ErrVersionNotFound is returned when a quote version is not found
	ErrVersionNotFound = errors.New("quote version not found")

	// ErrVersionConflict is returned when a concurrent quote save won the
	// sequence race and the automatic retry also lost
	ErrVersionConflict = errors.New("quote version conflict, retry with refreshed state")

	// ErrNoActiveRateTable is returned when no rate table is marked active
	ErrNoActiveRateTable = errors.New("no active rate table")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

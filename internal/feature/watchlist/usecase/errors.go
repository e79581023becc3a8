// Package usecase implements the business logic for the watchlist feature.
package usecase

import "errors"

var (
	// ErrWatchEntryNotFound is returned when no watch entry matches the given ID.
	ErrWatchEntryNotFound = errors.New("watch entry not found")

	// ErrForbidden is returned when a user touches a watch entry they do not own.
	ErrForbidden = errors.New("watch entry belongs to another user")

	// ErrAlreadyWatching is returned when the owner already has an active entry for the symbol.
	ErrAlreadyWatching = errors.New("symbol is already being watched")

	// ErrInvalidSymbol is returned when a symbol is not 1-5 letters.
	ErrInvalidSymbol = errors.New("symbol must be 1-5 letters")

	// ErrInvalidThresholds is returned when the min/max bounds are missing, non-positive or inverted.
	ErrInvalidThresholds = errors.New("invalid price thresholds")
)

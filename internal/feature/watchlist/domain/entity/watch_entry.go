// Package entity defines the domain models for the watchlist feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WatchEntry is one owner's interest in one symbol.
// Entries are never hard-deleted; deactivation flips Active to false so that
// alerts keep a valid back-reference.
type WatchEntry struct {
	ID        uint
	OwnerID   uint
	Symbol    string              // upper-case ticker, 1-5 letters
	MinPrice  decimal.NullDecimal // lower bound, Valid=false when unset
	MaxPrice  decimal.NullDecimal // upper bound, Valid=false when unset
	Active    bool
	CreatedAt time.Time
}

// HasMin reports whether a lower bound is configured.
func (w WatchEntry) HasMin() bool { return w.MinPrice.Valid }

// HasMax reports whether an upper bound is configured.
func (w WatchEntry) HasMax() bool { return w.MaxPrice.Valid }

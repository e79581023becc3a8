// Package entity defines the domain models for the alerts feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which threshold of a watch entry was crossed.
type Kind string

const (
	// KindMinBreach means the price fell to or below the entry's minimum.
	KindMinBreach Kind = "MIN_BREACH"
	// KindMaxBreach means the price rose to or above the entry's maximum.
	KindMaxBreach Kind = "MAX_BREACH"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindMinBreach || k == KindMaxBreach
}

// Alert is one detected threshold crossing.
//
// Symbol is copied from the watch entry at trigger time so the alert history
// stays readable after the entry is changed or deactivated.
type Alert struct {
	ID             uint
	OwnerID        uint
	WatchEntryID   uint
	Symbol         string
	CurrentPrice   decimal.Decimal
	ThresholdPrice decimal.Decimal
	Kind           Kind
	TriggeredAt    time.Time
	Read           bool
}

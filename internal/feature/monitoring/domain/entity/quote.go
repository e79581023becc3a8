// Package entity defines the transient values that flow through a monitoring cycle.
package entity

import (
	"time"

	"github.com/shopspring/decimal"

	alertentity "stock_alert_backend/internal/feature/alerts/domain/entity"
)

// PriceQuote is a price observed for a symbol. It is never persisted.
type PriceQuote struct {
	Symbol     string
	Price      decimal.Decimal
	ObservedAt time.Time
	// Synthetic is true when the price came from the local fallback generator.
	Synthetic bool
}

// Crossing is a threshold condition satisfied by a quote.
type Crossing struct {
	Kind           alertentity.Kind
	ThresholdPrice decimal.Decimal
}

// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/watchlist/domain/entity"
)

// WatchEntryReq is the body of POST /watchlist and PUT /watchlist/:id.
// Symbol is ignored on update.
type WatchEntryReq struct {
	Symbol   string              `json:"symbol"`
	MinPrice decimal.NullDecimal `json:"minPrice"`
	MaxPrice decimal.NullDecimal `json:"maxPrice"`
}

// WatchEntryRes is a watch entry as returned to clients.
type WatchEntryRes struct {
	ID        uint                `json:"id"`
	Symbol    string              `json:"symbol"`
	MinPrice  decimal.NullDecimal `json:"minPrice"`
	MaxPrice  decimal.NullDecimal `json:"maxPrice"`
	CreatedAt time.Time           `json:"createdAt"`
	Active    bool                `json:"active"`
}

// FromEntity converts a domain entry to its response form.
func FromEntity(e entity.WatchEntry) WatchEntryRes {
	return WatchEntryRes{
		ID:        e.ID,
		Symbol:    e.Symbol,
		MinPrice:  e.MinPrice,
		MaxPrice:  e.MaxPrice,
		CreatedAt: e.CreatedAt,
		Active:    e.Active,
	}
}

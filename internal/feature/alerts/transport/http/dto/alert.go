// Package dto defines data transfer objects for the alerts HTTP API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/alerts/domain/entity"
)

// AlertRes is an alert as returned to clients.
type AlertRes struct {
	ID             uint            `json:"id"`
	Symbol         string          `json:"symbol"`
	CurrentPrice   decimal.Decimal `json:"currentPrice"`
	ThresholdPrice decimal.Decimal `json:"thresholdPrice"`
	AlertType      string          `json:"alertType"`
	TriggeredAt    time.Time       `json:"triggeredAt"`
	Read           bool            `json:"read"`
}

// UnreadCountRes is the body of GET /alerts/unread/count.
type UnreadCountRes struct {
	Count int64 `json:"count"`
}

// FromEntities converts domain alerts to their response form.
func FromEntities(as []entity.Alert) []AlertRes {
	out := make([]AlertRes, 0, len(as))
	for _, a := range as {
		out = append(out, AlertRes{
			ID:             a.ID,
			Symbol:         a.Symbol,
			CurrentPrice:   a.CurrentPrice,
			ThresholdPrice: a.ThresholdPrice,
			AlertType:      string(a.Kind),
			TriggeredAt:    a.TriggeredAt,
			Read:           a.Read,
		})
	}
	return out
}

package usecase

import (
	alertentity "stock_alert_backend/internal/feature/alerts/domain/entity"
	"stock_alert_backend/internal/feature/monitoring/domain/entity"
	watchentity "stock_alert_backend/internal/feature/watchlist/domain/entity"
)

// Evaluate returns the crossings of quote against the thresholds of entry.
// The min and max checks are independent, so an inverted pair of bounds can
// produce both. MIN_BREACH always comes first.
func Evaluate(entry watchentity.WatchEntry, quote entity.PriceQuote) []entity.Crossing {
	var out []entity.Crossing
	if entry.HasMin() && quote.Price.LessThanOrEqual(entry.MinPrice.Decimal) {
		out = append(out, entity.Crossing{Kind: alertentity.KindMinBreach, ThresholdPrice: entry.MinPrice.Decimal})
	}
	if entry.HasMax() && quote.Price.GreaterThanOrEqual(entry.MaxPrice.Decimal) {
		out = append(out, entity.Crossing{Kind: alertentity.KindMaxBreach, ThresholdPrice: entry.MaxPrice.Decimal})
	}
	return out
}

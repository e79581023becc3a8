package synthetic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"stock_alert_backend/internal/feature/monitoring/domain/entity"
	"stock_alert_backend/internal/feature/monitoring/usecase"
)

const (
	// DemoAPIKey is the credential value that enables the fallback for every symbol.
	DemoAPIKey = "demo"
	// DemoSymbol is the symbol that always gets the fallback.
	DemoSymbol = "DEMO"
)

// IsDemoKey reports whether apiKey is the demo sentinel (case-insensitive).
func IsDemoKey(apiKey string) bool {
	return strings.EqualFold(strings.TrimSpace(apiKey), DemoAPIKey)
}

// FallbackSource decorates a PriceSource with the demo fallback.
//
// The real source is always asked first. When the credential is the demo key
// or the symbol is DEMO, any failure is replaced by a synthetic price, so that
// path never fails. Other failures pass through unchanged.
type FallbackSource struct {
	inner    usecase.PriceSource
	demoMode bool
	now      func() time.Time
}

var _ usecase.PriceSource = (*FallbackSource)(nil)

// NewFallbackSource wraps inner. apiKey is the credential inner was configured with.
func NewFallbackSource(inner usecase.PriceSource, apiKey string) *FallbackSource {
	return &FallbackSource{inner: inner, demoMode: IsDemoKey(apiKey), now: time.Now}
}

// FetchPrice returns the real quote, or a synthetic one on failure in demo mode.
func (f *FallbackSource) FetchPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	q, err := f.inner.FetchPrice(ctx, symbol)
	if err == nil {
		return q, nil
	}
	if !f.demoMode && symbol != DemoSymbol {
		return entity.PriceQuote{}, err
	}
	slog.Debug("using synthetic price", "symbol", symbol, "error", err)
	now := f.now()
	return entity.PriceQuote{
		Symbol:     symbol,
		Price:      SyntheticPrice(symbol, now),
		ObservedAt: now,
		Synthetic:  true,
	}, nil
}

// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"
	"os"
	"strings"

	"stock_alert_backend/internal/feature/monitoring/usecase"
	"stock_alert_backend/internal/platform/externalapi/alphavantage"
	"stock_alert_backend/internal/platform/externalapi/twelvedata"
	"stock_alert_backend/internal/platform/externalapi/synthetic"
	infrahttp "stock_alert_backend/internal/platform/http"
)

const (
	EnvKeyQuoteProvider = "QUOTE_PROVIDER"

	ProviderAlphaVantage = "alphavantage"
	ProviderTwelveData   = "twelvedata"
)

// QuoteProviderFromEnv returns QUOTE_PROVIDER, defaulting to Alpha Vantage.
func QuoteProviderFromEnv() string {
	p := strings.ToLower(strings.TrimSpace(os.Getenv(EnvKeyQuoteProvider)))
	if p == "" {
		return ProviderAlphaVantage
	}
	return p
}

// NewPriceSource creates the configured quote client with an HTTP client sized for workers.
// Both providers share the demo fallback (demo credential or DEMO symbol).
func NewPriceSource(provider string, workers int) (usecase.PriceSource, error) {
	switch provider {
	case ProviderAlphaVantage:
		cfg := alphavantage.LoadConfig()
		client := alphavantage.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout, workers))
		return synthetic.NewFallbackSource(client, cfg.APIKey), nil
	case ProviderTwelveData:
		cfg := twelvedata.LoadConfig()
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s requires TWELVE_DATA_API_KEY", ProviderTwelveData)
		}
		client := twelvedata.NewTwelveDataQuotes(cfg, infrahttp.NewHTTPClient(cfg.Timeout, workers))
		return synthetic.NewFallbackSource(client, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown %s %q", EnvKeyQuoteProvider, provider)
	}
}

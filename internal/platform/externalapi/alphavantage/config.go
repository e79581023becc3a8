// Package alphavantage provides a price source backed by the Alpha Vantage GLOBAL_QUOTE endpoint.
package alphavantage

import (
	"os"
	"strings"
	"time"

	"stock_alert_backend/internal/platform/externalapi/synthetic"
)

const defaultBaseURL = "https://www.alphavantage.co"

// Config holds configuration for the Alpha Vantage client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout time.Duration // HTTP request timeout; an expired request is a transport failure
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: os.Getenv("ALPHA_VANTAGE_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.APIKey == "" {
		cfg.APIKey = synthetic.DemoAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

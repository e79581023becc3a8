package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stock_alert_backend/internal/feature/monitoring/domain"
	"stock_alert_backend/internal/feature/monitoring/domain/entity"
	"stock_alert_backend/internal/feature/monitoring/usecase"
	"stock_alert_backend/internal/platform/externalapi/alphavantage/dto"
)

// Client fetches current prices from Alpha Vantage.
type Client struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// Client がPriceSourceを実装していることをコンパイル時に検証します。
var _ usecase.PriceSource = (*Client)(nil)

// NewClient creates a Client with the given configuration and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client, now: time.Now}
}

// FetchPrice returns the current price of symbol from GLOBAL_QUOTE.
// Failures are returned as *domain.PriceFetchError.
func (c *Client) FetchPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.cfg.APIKey)

	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol,
			fmt.Errorf("alphavantage http %d", res.StatusCode))
	}

	var body dto.GlobalQuoteResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
		}
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseNotFound, symbol,
			fmt.Errorf("decode response: %w", err))
	}
	return parseGlobalQuote(symbol, body, c.now())
}

// parseGlobalQuote turns the loosely-typed response into a PriceQuote.
// It is the only place that knows the response shape.
func parseGlobalQuote(symbol string, body dto.GlobalQuoteResponse, observedAt time.Time) (entity.PriceQuote, error) {
	if body.GlobalQuote == nil {
		msg := body.Message()
		if msg == "" {
			msg = "response has no Global Quote"
		}
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseNotFound, symbol, errors.New(msg))
	}

	raw := strings.TrimSpace(body.GlobalQuote.Price)
	if raw == "" {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseMalformedPrice, symbol,
			errors.New("price is empty"))
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseMalformedPrice, symbol,
			fmt.Errorf("parse price %q: %w", raw, err))
	}
	if !price.IsPositive() {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseMalformedPrice, symbol,
			fmt.Errorf("price %s is not positive", price))
	}

	return entity.PriceQuote{
		Symbol:     symbol,
		Price:      price,
		ObservedAt: observedAt,
	}, nil
}

package twelvedata

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
	"stock_alert_backend/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataQuotes はTwelve Data外部APIから現在値を取得するPriceSource実装です。
type TwelveDataQuotes struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

// TwelveDataQuotesがPriceSourceを実装していることをコンパイル時に検証します。
var _ usecase.PriceSource = (*TwelveDataQuotes)(nil)

// NewTwelveDataQuotes は指定された設定とHTTPクライアントでTwelveDataQuotesの新しいインスタンスを生成します。
func NewTwelveDataQuotes(cfg Config, client *http.Client) *TwelveDataQuotes {
	return &TwelveDataQuotes{cfg: cfg, client: client, now: time.Now}
}

// FetchPrice は /price を呼び出し、現在値をPriceQuoteとして返します。
// 失敗はすべて *domain.PriceFetchError になります。
func (t *TwelveDataQuotes) FetchPrice(ctx context.Context, symbol string) (entity.PriceQuote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("apikey", t.cfg.APIKey)

	u := fmt.Sprintf("%s/price?%s", t.cfg.BaseURL, q.Encode())

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 300 {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol,
			fmt.Errorf("twelvedata http %d", res.StatusCode))
	}

	var body dto.PriceResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		if ctx.Err() != nil {
			return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseTransport, symbol, err)
		}
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseNotFound, symbol,
			fmt.Errorf("decode response: %w", err))
	}
	if body.Status == "error" {
		return entity.PriceQuote{}, domain.NewPriceFetchError(domain.CauseNotFound, symbol,
			fmt.Errorf("twelvedata: %s", body.Message))
	}

	raw := strings.TrimSpace(body.Price)
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

	return entity.PriceQuote{Symbol: symbol, Price: price, ObservedAt: t.now()}, nil
}

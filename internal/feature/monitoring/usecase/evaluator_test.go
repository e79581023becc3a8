package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	alertentity "stock_alert_backend/internal/feature/alerts/domain/entity"
	"stock_alert_backend/internal/feature/monitoring/domain/entity"
	watchentity "stock_alert_backend/internal/feature/watchlist/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name  string
		min   decimal.NullDecimal
		max   decimal.NullDecimal
		price string
		want  []entity.Crossing
	}{
		{name: "min only, price above", min: nd("40.00"), price: "40.01", want: nil},
		{name: "min only, price equal", min: nd("40.00"), price: "40.00",
			want: []entity.Crossing{{Kind: alertentity.KindMinBreach, ThresholdPrice: d("40.00")}}},
		{name: "min only, price below", min: nd("40.00"), price: "39.50",
			want: []entity.Crossing{{Kind: alertentity.KindMinBreach, ThresholdPrice: d("40.00")}}},
		{name: "max only, price below", max: nd("200"), price: "199.99", want: nil},
		{name: "max only, price equal", max: nd("200"), price: "200.00",
			want: []entity.Crossing{{Kind: alertentity.KindMaxBreach, ThresholdPrice: d("200")}}},
		{name: "max only, price above", max: nd("200"), price: "250",
			want: []entity.Crossing{{Kind: alertentity.KindMaxBreach, ThresholdPrice: d("200")}}},
		{name: "both set, price inside band", min: nd("10"), max: nd("20"), price: "15", want: nil},
		{name: "inverted bounds fire both", min: nd("100"), max: nd("90"), price: "95",
			want: []entity.Crossing{
				{Kind: alertentity.KindMinBreach, ThresholdPrice: d("100")},
				{Kind: alertentity.KindMaxBreach, ThresholdPrice: d("90")},
			}},
		{name: "equal bounds at price fire both", min: nd("50"), max: nd("50"), price: "50",
			want: []entity.Crossing{
				{Kind: alertentity.KindMinBreach, ThresholdPrice: d("50")},
				{Kind: alertentity.KindMaxBreach, ThresholdPrice: d("50")},
			}},
		{name: "no bounds", price: "1", want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := watchentity.WatchEntry{ID: 1, Symbol: "ACME", MinPrice: tc.min, MaxPrice: tc.max, Active: true}
			got := Evaluate(entry, entity.PriceQuote{Symbol: "ACME", Price: d(tc.price)})

			if !assert.Len(t, got, len(tc.want)) {
				return
			}
			for i := range tc.want {
				assert.Equal(t, tc.want[i].Kind, got[i].Kind)
				assert.True(t, tc.want[i].ThresholdPrice.Equal(got[i].ThresholdPrice),
					"threshold: got %s, want %s", got[i].ThresholdPrice, tc.want[i].ThresholdPrice)
			}
		})
	}
}

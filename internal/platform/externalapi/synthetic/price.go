// Package synthetic generates local fallback prices and wraps a price source
// with the demo fallback.
package synthetic

import (
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	syntheticBaseMin   = 50
	syntheticBaseSpan  = 200
	syntheticWindowMs  = 10_000
	syntheticOffsetMid = 50
)

var (
	// SyntheticFloor is the lowest price the generator returns.
	SyntheticFloor = decimal.NewFromInt(1)
	// SyntheticCeiling is an exclusive upper bound of generated prices.
	SyntheticCeiling = decimal.NewFromInt(syntheticBaseMin + syntheticBaseSpan + syntheticOffsetMid)
)

// SyntheticPrice returns a deterministic-looking price for symbol at now.
//
// The base price is a hash of the symbol mapped into [50, 250). A wall-clock
// offset in [-50, 50) is added, taken from the current millisecond modulo a
// 10s window. The result is clamped to SyntheticFloor and rounded half-up to
// two decimals, so it always lies in [1.00, 300.00).
func SyntheticPrice(symbol string, now time.Time) decimal.Decimal {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	base := decimal.NewFromInt(int64(syntheticBaseMin + h.Sum32()%syntheticBaseSpan))

	ms := now.UnixMilli() % syntheticWindowMs
	if ms < 0 {
		ms += syntheticWindowMs
	}
	offset := decimal.New(ms, -2).Sub(decimal.NewFromInt(syntheticOffsetMid))

	p := base.Add(offset)
	if p.LessThan(SyntheticFloor) {
		p = SyntheticFloor
	}
	// Round is half away from zero, which is half-up for positive prices.
	return p.Round(2)
}

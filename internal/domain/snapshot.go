package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketSnapshot holds point-in-time market facts for one identifier, as
// supplied by the market-data provider. Absent facts are nil pointers, never
// zero or negative sentinels.
type MarketSnapshot struct {
	Identifier string
	Title      string

	CurrentPrice   *decimal.Decimal
	AvgPrice30d    *decimal.Decimal
	AvgPrice90d    *decimal.Decimal
	AvgPrice180d   *decimal.Decimal
	BuyBoxPrice    *decimal.Decimal // may differ from CurrentPrice
	BuyBoxIsAmazon bool

	SalesRank      *int64   // lower = more popular; nil if unranked
	RankVolatility *float64 // coefficient of variation of rank; nil without rank history
	OfferCount     int      // competing sellers

	// Physical attributes used for fulfillment fee tiering.
	WeightKG     *float64
	DimensionsCM []float64 // length, width, height; nil when unknown
}

// HasUsablePrice reports whether the snapshot carries at least one positive
// price the calculator can anchor an estimated sale price on.
func (s *MarketSnapshot) HasUsablePrice() bool {
	for _, p := range []*decimal.Decimal{s.BuyBoxPrice, s.AvgPrice30d, s.AvgPrice90d} {
		if p != nil && p.IsPositive() {
			return true
		}
	}
	return false
}

// Validate checks snapshot invariants. A snapshot with a negative price
// field or no price data at all must not reach the calculator.
func (s *MarketSnapshot) Validate() error {
	if s.Identifier == "" {
		return fmt.Errorf("snapshot has no identifier")
	}
	prices := []struct {
		name  string
		value *decimal.Decimal
	}{
		{"current_price", s.CurrentPrice},
		{"rolling_average_price_30d", s.AvgPrice30d},
		{"rolling_average_price_90d", s.AvgPrice90d},
		{"rolling_average_price_180d", s.AvgPrice180d},
		{"buybox_price", s.BuyBoxPrice},
	}
	for _, p := range prices {
		if p.value != nil && p.value.IsNegative() {
			return fmt.Errorf("snapshot %s: negative %s: %s", s.Identifier, p.name, p.value.String())
		}
	}
	if s.SalesRank != nil && *s.SalesRank <= 0 {
		return fmt.Errorf("snapshot %s: sales rank must be positive, got %d", s.Identifier, *s.SalesRank)
	}
	if s.OfferCount < 0 {
		return fmt.Errorf("snapshot %s: negative offer count %d", s.Identifier, s.OfferCount)
	}
	if !s.HasUsablePrice() {
		return fmt.Errorf("snapshot %s: no usable price data", s.Identifier)
	}
	return nil
}

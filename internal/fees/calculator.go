// Package fees converts a market snapshot plus purchase cost into a
// profitability estimate. All monetary arithmetic is decimal fixed-point;
// percentages are fractions in [0,1].
package fees

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"asin-scout/internal/domain"
)

// ErrInsufficientData is returned when a snapshot carries no usable price to
// anchor an estimated sale price on. It is never defaulted to a zero profit:
// a silent zero would be indistinguishable from a genuine break-even.
var ErrInsufficientData = errors.New("insufficient market data")

// Compute derives ProfitMetrics for one candidate. Pure function of its
// inputs; the schedule must be validated beforehand.
func Compute(c domain.Candidate, snap *domain.MarketSnapshot, schedule Schedule) (domain.ProfitMetrics, error) {
	if !c.PurchasePrice.IsPositive() {
		return domain.ProfitMetrics{}, fmt.Errorf("candidate %s: purchase price must be positive, got %s",
			c.Identifier, c.PurchasePrice.String())
	}

	sale, err := estimatedSalePrice(snap)
	if err != nil {
		return domain.ProfitMetrics{}, err
	}

	referral := sale.Mul(schedule.ReferralRate(sale))
	fulfillment := schedule.FulfillmentFee(snap.WeightKG, snap.DimensionsCM)

	net := sale.Sub(c.PurchasePrice).Sub(referral).Sub(fulfillment)
	margin := net.Div(sale)
	roi := net.Div(c.PurchasePrice)

	return domain.ProfitMetrics{
		ReferralFee:        referral,
		FulfillmentFee:     fulfillment,
		EstimatedSalePrice: sale,
		NetProfit:          net,
		MarginPct:          &margin,
		ROIPct:             &roi,
	}, nil
}

// estimatedSalePrice applies the ordered fallback: the buy box price is the
// most faithful proxy for an achievable sale; when it is missing, longer
// rolling averages smooth out transient spikes.
func estimatedSalePrice(snap *domain.MarketSnapshot) (decimal.Decimal, error) {
	for _, p := range []*decimal.Decimal{snap.BuyBoxPrice, snap.AvgPrice30d, snap.AvgPrice90d} {
		if p != nil && p.IsPositive() {
			return *p, nil
		}
	}
	return decimal.Zero, fmt.Errorf("candidate %s: %w", snap.Identifier, ErrInsufficientData)
}

package domain

import "github.com/shopspring/decimal"

// ProfitMetrics is the profitability estimate for a single candidate.
// MarginPct and ROIPct are fractions (0.25 = 25%). A nil ratio means
// undefined (denominator missing or zero), never silently zero.
type ProfitMetrics struct {
	ReferralFee        decimal.Decimal
	FulfillmentFee     decimal.Decimal
	EstimatedSalePrice decimal.Decimal

	// NetProfit = EstimatedSalePrice - PurchasePrice - ReferralFee - FulfillmentFee
	NetProfit decimal.Decimal

	MarginPct *decimal.Decimal // NetProfit / EstimatedSalePrice
	ROIPct    *decimal.Decimal // NetProfit / PurchasePrice
}

package decision

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy holds the configurable accept/reject thresholds. Ratio thresholds
// are fractions (0.20 = 20%); MinNetProfit is an absolute currency floor.
type Policy struct {
	MinMarginPct decimal.Decimal
	MinROIPct    decimal.Decimal
	MinNetProfit decimal.Decimal

	RejectOnVolatility   bool
	RejectOnCompetition  bool
	RejectOnRank         bool
	RejectOnAmazonBuyBox bool
}

// Validate checks policy invariants at configuration load time.
func (p Policy) Validate() error {
	one := decimal.NewFromInt(1)
	if p.MinMarginPct.IsNegative() || p.MinMarginPct.GreaterThanOrEqual(one) {
		return fmt.Errorf("policy: min_margin_pct %s outside [0,1)", p.MinMarginPct.String())
	}
	if p.MinROIPct.IsNegative() {
		return fmt.Errorf("policy: min_roi_pct must be non-negative")
	}
	if p.MinNetProfit.IsNegative() {
		return fmt.Errorf("policy: min_net_profit must be non-negative")
	}
	return nil
}

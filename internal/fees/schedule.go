package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReferralBand maps sale prices up to MaxPrice (inclusive) to a referral fee
// fraction. A nil MaxPrice marks the open-ended top band.
type ReferralBand struct {
	MaxPrice *decimal.Decimal
	Rate     decimal.Decimal // fraction 0..1
}

// FulfillmentTier is one size/weight bracket of the fulfillment fee table.
// A product matches the first tier whose limits it fits under.
type FulfillmentTier struct {
	MaxDimensionSumCM float64 // length + width + height ceiling
	MaxWeightKG       float64
	Fee               decimal.Decimal
}

// Schedule is the marketplace fee table. Fee values are configuration, not
// logic: marketplace schedules change, so nothing here is hardcoded by the
// calculator.
type Schedule struct {
	ReferralBands    []ReferralBand    // ascending by MaxPrice, last band open-ended
	FulfillmentTiers []FulfillmentTier // ascending by size/weight
	OversizeFee      decimal.Decimal   // applied when no tier fits
	UnknownSizeFee   decimal.Decimal   // applied when weight/dimensions are missing
}

// Validate checks structural invariants of the schedule. A schedule that
// fails validation is a configuration error fatal to the whole run.
func (s Schedule) Validate() error {
	if len(s.ReferralBands) == 0 {
		return fmt.Errorf("fee schedule: at least one referral band required")
	}
	one := decimal.NewFromInt(1)
	var prev *decimal.Decimal
	for i, b := range s.ReferralBands {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("fee schedule: referral band %d rate %s outside [0,1]", i, b.Rate.String())
		}
		if b.MaxPrice == nil {
			if i != len(s.ReferralBands)-1 {
				return fmt.Errorf("fee schedule: open-ended referral band %d must be last", i)
			}
			continue
		}
		if !b.MaxPrice.IsPositive() {
			return fmt.Errorf("fee schedule: referral band %d max price must be positive", i)
		}
		if prev != nil && !b.MaxPrice.GreaterThan(*prev) {
			return fmt.Errorf("fee schedule: referral bands not ascending at index %d", i)
		}
		prev = b.MaxPrice
	}
	if last := s.ReferralBands[len(s.ReferralBands)-1]; last.MaxPrice != nil {
		return fmt.Errorf("fee schedule: last referral band must be open-ended")
	}
	for i, t := range s.FulfillmentTiers {
		if t.MaxDimensionSumCM <= 0 || t.MaxWeightKG <= 0 {
			return fmt.Errorf("fee schedule: fulfillment tier %d limits must be positive", i)
		}
		if t.Fee.IsNegative() {
			return fmt.Errorf("fee schedule: fulfillment tier %d fee is negative", i)
		}
	}
	if s.OversizeFee.IsNegative() || s.UnknownSizeFee.IsNegative() {
		return fmt.Errorf("fee schedule: fallback fees must be non-negative")
	}
	return nil
}

// ReferralRate resolves the referral fee fraction for a sale price.
// Assumes a validated schedule (last band open-ended).
func (s Schedule) ReferralRate(salePrice decimal.Decimal) decimal.Decimal {
	for _, b := range s.ReferralBands {
		if b.MaxPrice == nil || salePrice.LessThanOrEqual(*b.MaxPrice) {
			return b.Rate
		}
	}
	// Unreachable on a validated schedule.
	return s.ReferralBands[len(s.ReferralBands)-1].Rate
}

// FulfillmentFee resolves the flat fulfillment fee from the product's
// physical attributes. Missing weight or dimensions fall back to
// UnknownSizeFee; products exceeding every tier pay OversizeFee.
func (s Schedule) FulfillmentFee(weightKG *float64, dimensionsCM []float64) decimal.Decimal {
	if weightKG == nil || len(dimensionsCM) != 3 {
		return s.UnknownSizeFee
	}
	dimSum := dimensionsCM[0] + dimensionsCM[1] + dimensionsCM[2]
	for _, t := range s.FulfillmentTiers {
		if dimSum <= t.MaxDimensionSumCM && *weightKG <= t.MaxWeightKG {
			return t.Fee
		}
	}
	return s.OversizeFee
}

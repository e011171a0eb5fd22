// Package risk derives volatility/competition indicators from a market
// snapshot. Absence of an optional fact is a first-class value here, not an
// error: an unranked product raises RankFlag, never VolatilityFlag.
package risk

import (
	"fmt"

	"asin-scout/internal/domain"
)

// Thresholds bound what counts as risky. Supplied by configuration as an
// immutable value object.
type Thresholds struct {
	MaxVolatility float64 // rank coefficient-of-variation ceiling
	MaxOffers     int     // competing-seller ceiling (inclusive trigger)
	WorstRank     int64   // worst acceptable sales rank
}

// Validate checks threshold invariants at configuration load time.
func (t Thresholds) Validate() error {
	if t.MaxVolatility <= 0 {
		return fmt.Errorf("risk thresholds: max_volatility must be positive")
	}
	if t.MaxOffers <= 0 {
		return fmt.Errorf("risk thresholds: max_offers must be positive")
	}
	if t.WorstRank <= 0 {
		return fmt.Errorf("risk thresholds: worst_rank must be positive")
	}
	return nil
}

// Score converts a snapshot into RiskMetrics. Pure function; no I/O.
func Score(snap *domain.MarketSnapshot, t Thresholds) domain.RiskMetrics {
	var m domain.RiskMetrics

	// Absent volatility data does not raise the flag: "unranked" is handled
	// by RankFlag and must not be conflated with "volatile".
	if snap.RankVolatility != nil && *snap.RankVolatility > t.MaxVolatility {
		m.VolatilityFlag = true
	}
	if snap.OfferCount >= t.MaxOffers {
		m.CompetitionFlag = true
	}
	if snap.SalesRank == nil || *snap.SalesRank > t.WorstRank {
		m.RankFlag = true
	}
	m.AmazonBuyBox = snap.BuyBoxIsAmazon

	return m
}

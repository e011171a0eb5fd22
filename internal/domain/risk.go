package domain

// RiskMetrics holds the volatility/competition indicators derived from a
// snapshot. Flags are raised against configured thresholds; whether a raised
// flag rejects a candidate is decided by policy, not here.
type RiskMetrics struct {
	VolatilityFlag  bool // rank volatility above threshold
	CompetitionFlag bool // offer count at or above threshold
	RankFlag        bool // sales rank absent or worse than ceiling
	AmazonBuyBox    bool // Amazon itself currently holds the buy box
}

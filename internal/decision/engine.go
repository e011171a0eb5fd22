// Package decision applies policy thresholds to profitability and risk
// metrics, producing an accept/reject verdict with ordered reason tags.
package decision

import "asin-scout/internal/domain"

// Decide evaluates the rule set in a fixed order so repeated runs yield
// identical reason sequences. An undefined margin short-circuits: no further
// ratio rule is meaningful without it. Every later rule is evaluated even
// after an earlier failure, so Reasons enumerates all violated rules rather
// than just the first. That makes near-misses reviewable.
func Decide(profit domain.ProfitMetrics, risk domain.RiskMetrics, policy Policy) domain.Decision {
	if profit.MarginPct == nil {
		return domain.Decision{
			Verdict: domain.VerdictReject,
			Reasons: []string{domain.ReasonUndefinedMargin},
		}
	}

	reasons := make([]string, 0, 7)

	if profit.MarginPct.LessThan(policy.MinMarginPct) {
		reasons = append(reasons, domain.ReasonMarginBelowThreshold)
	}
	if profit.ROIPct != nil && profit.ROIPct.LessThan(policy.MinROIPct) {
		reasons = append(reasons, domain.ReasonROIBelowThreshold)
	}
	if risk.VolatilityFlag && policy.RejectOnVolatility {
		reasons = append(reasons, domain.ReasonVolatilePriceHistory)
	}
	if risk.CompetitionFlag && policy.RejectOnCompetition {
		reasons = append(reasons, domain.ReasonExcessCompetition)
	}
	if risk.RankFlag && policy.RejectOnRank {
		reasons = append(reasons, domain.ReasonRankUnfavorable)
	}
	if profit.NetProfit.LessThan(policy.MinNetProfit) {
		reasons = append(reasons, domain.ReasonProfitBelowThreshold)
	}
	if risk.AmazonBuyBox && policy.RejectOnAmazonBuyBox {
		reasons = append(reasons, domain.ReasonAmazonHoldsBuyBox)
	}

	if len(reasons) > 0 {
		return domain.Decision{Verdict: domain.VerdictReject, Reasons: reasons}
	}
	return domain.Decision{Verdict: domain.VerdictAccept, Reasons: []string{}}
}

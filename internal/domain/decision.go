package domain

// Verdict is the final buy/skip outcome for a candidate.
type Verdict string

const (
	VerdictAccept Verdict = "ACCEPT"
	VerdictReject Verdict = "REJECT"
)

// Reason tags, emitted in fixed rule-evaluation order so output is
// reproducible and diffable.
const (
	ReasonUndefinedMargin      = "undefined_margin"
	ReasonMarginBelowThreshold = "margin_below_threshold"
	ReasonROIBelowThreshold    = "roi_below_threshold"
	ReasonVolatilePriceHistory = "volatile_price_history"
	ReasonExcessCompetition    = "excess_competition"
	ReasonRankUnfavorable      = "rank_unfavorable"
	ReasonProfitBelowThreshold = "profit_below_threshold"
	ReasonAmazonHoldsBuyBox    = "amazon_holds_buybox"
)

// Decision is the terminal record for one candidate. Reasons is empty iff
// Verdict is Accept. Created once by the decision engine, never mutated.
type Decision struct {
	Verdict Verdict
	Reasons []string
}

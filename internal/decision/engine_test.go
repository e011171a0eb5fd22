package decision

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asin-scout/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testPolicy() Policy {
	return Policy{
		MinMarginPct:         dec("0.20"),
		MinROIPct:            dec("0.30"),
		MinNetProfit:         dec("1.00"),
		RejectOnVolatility:   true,
		RejectOnCompetition:  true,
		RejectOnRank:         true,
		RejectOnAmazonBuyBox: true,
	}
}

func profitableMetrics() domain.ProfitMetrics {
	// Matches the worked example: sell 20.00, buy 10.00, fees 5.00.
	return domain.ProfitMetrics{
		EstimatedSalePrice: dec("20.00"),
		ReferralFee:        dec("3.00"),
		FulfillmentFee:     dec("2.00"),
		NetProfit:          dec("5.00"),
		MarginPct:          decPtr("0.25"),
		ROIPct:             decPtr("0.5"),
	}
}

func TestDecide_Accept(t *testing.T) {
	d := Decide(profitableMetrics(), domain.RiskMetrics{}, testPolicy())

	assert.Equal(t, domain.VerdictAccept, d.Verdict)
	assert.Empty(t, d.Reasons)
}

func TestDecide_UndefinedMarginShortCircuits(t *testing.T) {
	profit := profitableMetrics()
	profit.MarginPct = nil

	// Every other rule would also fire; none of them may appear.
	risk := domain.RiskMetrics{VolatilityFlag: true, CompetitionFlag: true, RankFlag: true}

	d := Decide(profit, risk, testPolicy())
	assert.Equal(t, domain.VerdictReject, d.Verdict)
	assert.Equal(t, []string{domain.ReasonUndefinedMargin}, d.Reasons)
}

func TestDecide_SingleRiskRejection(t *testing.T) {
	d := Decide(profitableMetrics(), domain.RiskMetrics{CompetitionFlag: true}, testPolicy())

	assert.Equal(t, domain.VerdictReject, d.Verdict)
	assert.Equal(t, []string{domain.ReasonExcessCompetition}, d.Reasons)
}

func TestDecide_ReasonsEnumerateAllViolations(t *testing.T) {
	profit := domain.ProfitMetrics{
		EstimatedSalePrice: dec("20.00"),
		NetProfit:          dec("0.50"),
		MarginPct:          decPtr("0.025"),
		ROIPct:             decPtr("0.05"),
	}
	risk := domain.RiskMetrics{
		VolatilityFlag:  true,
		CompetitionFlag: true,
		RankFlag:        true,
		AmazonBuyBox:    true,
	}

	d := Decide(profit, risk, testPolicy())
	require.Equal(t, domain.VerdictReject, d.Verdict)

	want := []string{
		domain.ReasonMarginBelowThreshold,
		domain.ReasonROIBelowThreshold,
		domain.ReasonVolatilePriceHistory,
		domain.ReasonExcessCompetition,
		domain.ReasonRankUnfavorable,
		domain.ReasonProfitBelowThreshold,
		domain.ReasonAmazonHoldsBuyBox,
	}
	assert.Equal(t, want, d.Reasons, "reasons must come out in fixed rule order")
}

func TestDecide_PolicyFlagsGateRiskRules(t *testing.T) {
	risk := domain.RiskMetrics{
		VolatilityFlag:  true,
		CompetitionFlag: true,
		RankFlag:        true,
		AmazonBuyBox:    true,
	}
	policy := testPolicy()
	policy.RejectOnVolatility = false
	policy.RejectOnCompetition = false
	policy.RejectOnRank = false
	policy.RejectOnAmazonBuyBox = false

	d := Decide(profitableMetrics(), risk, policy)
	assert.Equal(t, domain.VerdictAccept, d.Verdict)
}

func TestDecide_Deterministic(t *testing.T) {
	profit := profitableMetrics()
	profit.MarginPct = decPtr("0.05")
	risk := domain.RiskMetrics{RankFlag: true}
	policy := testPolicy()

	first := Decide(profit, risk, policy)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(profit, risk, policy))
	}
}

func TestDecide_MarginMonotonicity(t *testing.T) {
	// Lowering min_margin_pct never turns an Accept into a Reject.
	profit := profitableMetrics()
	policy := testPolicy()

	policy.MinMarginPct = dec("0.25")
	accepted := Decide(profit, domain.RiskMetrics{}, policy).Verdict == domain.VerdictAccept
	require.True(t, accepted, "margin exactly at threshold is acceptable")

	for _, lower := range []string{"0.20", "0.10", "0"} {
		policy.MinMarginPct = dec(lower)
		d := Decide(profit, domain.RiskMetrics{}, policy)
		assert.Equal(t, domain.VerdictAccept, d.Verdict, "min_margin_pct=%s", lower)
	}
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, testPolicy().Validate())

	t.Run("margin misquoted on 0-100 scale", func(t *testing.T) {
		p := testPolicy()
		p.MinMarginPct = dec("20")
		require.Error(t, p.Validate())
	})

	t.Run("negative roi floor", func(t *testing.T) {
		p := testPolicy()
		p.MinROIPct = dec("-0.1")
		require.Error(t, p.Validate())
	})

	t.Run("negative profit floor", func(t *testing.T) {
		p := testPolicy()
		p.MinNetProfit = dec("-5")
		require.Error(t, p.Validate())
	})
}

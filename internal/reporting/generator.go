package reporting

import (
	"time"

	"asin-scout/internal/domain"
	"asin-scout/internal/orchestrator"
)

// Generator builds reports from batch outcomes.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Build splits outcomes into result rows and failure rows, preserving
// input order within each section.
func (g *Generator) Build(outcomes []orchestrator.Outcome) *Report {
	report := &Report{GeneratedAt: g.now()}

	for _, out := range outcomes {
		if out.Status != orchestrator.StatusDecided {
			report.Failures = append(report.Failures, failureRow(out))
			continue
		}

		row := ResultRow{
			Identifier:         out.Candidate.Identifier,
			PurchasePrice:      out.Candidate.PurchasePrice,
			EstimatedSalePrice: out.Profit.EstimatedSalePrice,
			NetProfit:          out.Profit.NetProfit,
			MarginPct:          out.Profit.MarginPct,
			ROIPct:             out.Profit.ROIPct,
			Verdict:            out.Decision.Verdict,
			Reasons:            out.Decision.Reasons,
			Notes:              out.Candidate.Notes,
		}
		if out.Snapshot != nil {
			row.Title = out.Snapshot.Title
		}

		if row.Verdict == domain.VerdictAccept {
			report.Accepted++
		} else {
			report.Rejected++
		}
		report.Results = append(report.Results, row)
	}

	return report
}

func failureRow(out orchestrator.Outcome) FailureRow {
	row := FailureRow{
		Identifier:    out.Candidate.Identifier,
		PurchasePrice: out.Candidate.PurchasePrice,
		Status:        out.Status,
		Notes:         out.Candidate.Notes,
	}
	if out.Err != nil {
		row.Reason = out.Err.Error()
	}
	return row
}

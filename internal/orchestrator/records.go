package orchestrator

import (
	"time"

	"asin-scout/internal/storage"
)

// OutcomeRecords flattens a batch's outcomes into persistable records.
// Position mirrors input order so stored runs replay in the same order
// they were evaluated.
func OutcomeRecords(runID string, outcomes []Outcome, evaluatedAt time.Time) []*storage.OutcomeRecord {
	records := make([]*storage.OutcomeRecord, len(outcomes))
	for i, out := range outcomes {
		rec := &storage.OutcomeRecord{
			RunID:         runID,
			Position:      i,
			Identifier:    out.Candidate.Identifier,
			PurchasePrice: out.Candidate.PurchasePrice,
			Status:        string(out.Status),
			EvaluatedAt:   evaluatedAt,
		}

		if out.Snapshot != nil {
			rec.Title = out.Snapshot.Title
		}
		if out.Decision != nil {
			verdict := string(out.Decision.Verdict)
			rec.Verdict = &verdict
			rec.Reasons = out.Decision.Reasons
		}
		if out.Profit != nil {
			salePrice := out.Profit.EstimatedSalePrice
			netProfit := out.Profit.NetProfit
			rec.EstimatedSalePrice = &salePrice
			rec.NetProfit = &netProfit
			rec.MarginPct = out.Profit.MarginPct
			rec.ROIPct = out.Profit.ROIPct
		}
		if out.Err != nil {
			reason := out.Err.Error()
			rec.FailureReason = &reason
		}

		records[i] = rec
	}
	return records
}

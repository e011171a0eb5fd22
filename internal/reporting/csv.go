package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
)

var resultHeader = []string{
	"asin", "title", "buy_price", "est_sale_price", "net_profit",
	"margin_pct", "roi_pct", "verdict", "reasons", "notes",
}

var failureHeader = []string{"asin", "buy_price", "status", "reason", "notes"}

// WriteResultsCSV writes decided candidates to w, one row per candidate,
// in the order they appear in the report.
func WriteResultsCSV(w io.Writer, rows []ResultRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return fmt.Errorf("reporting: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Identifier,
			r.Title,
			r.PurchasePrice.StringFixed(2),
			r.EstimatedSalePrice.StringFixed(2),
			r.NetProfit.StringFixed(2),
			formatOptionalRatio(r.MarginPct),
			formatOptionalRatio(r.ROIPct),
			string(r.Verdict),
			joinReasons(r.Reasons),
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("reporting: write row for %s: %w", r.Identifier, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFailuresCSV writes failed and cancelled candidates to w.
func WriteFailuresCSV(w io.Writer, rows []FailureRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(failureHeader); err != nil {
		return fmt.Errorf("reporting: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Identifier,
			r.PurchasePrice.StringFixed(2),
			string(r.Status),
			r.Reason,
			r.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("reporting: write row for %s: %w", r.Identifier, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

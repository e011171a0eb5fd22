// Package reporting turns batch evaluation outcomes into result files.
package reporting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"asin-scout/internal/domain"
	"asin-scout/internal/orchestrator"
)

// ResultRow is one decided candidate in the results sheet.
type ResultRow struct {
	Identifier         string
	Title              string
	PurchasePrice      decimal.Decimal
	EstimatedSalePrice decimal.Decimal
	NetProfit          decimal.Decimal
	MarginPct          *decimal.Decimal
	ROIPct             *decimal.Decimal
	Verdict            domain.Verdict
	Reasons            []string
	Notes              string
}

// FailureRow is one candidate that never reached a verdict.
type FailureRow struct {
	Identifier    string
	PurchasePrice decimal.Decimal
	Status        orchestrator.Status
	Reason        string
	Notes         string
}

// Report holds everything one batch run produces.
type Report struct {
	GeneratedAt time.Time
	Results     []ResultRow
	Failures    []FailureRow
	Accepted    int
	Rejected    int
}

// joinReasons renders the ordered reason list for flat file formats.
func joinReasons(reasons []string) string {
	return strings.Join(reasons, "|")
}

// formatOptionalRatio renders margin and ROI columns. Undefined ratios
// come out empty, not zero.
func formatOptionalRatio(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(4)
}

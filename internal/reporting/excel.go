package reporting

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet  = "Results"
	failuresSheet = "Failures"
)

// WriteWorkbook writes the report as an XLSX workbook with a Results
// sheet and a Failures sheet. Ratio columns stay numeric so they can be
// sorted and filtered in a spreadsheet editor.
func WriteWorkbook(path string, report *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("reporting: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(failuresSheet); err != nil {
		return fmt.Errorf("reporting: create failures sheet: %w", err)
	}

	if err := writeResultsSheet(f, report.Results); err != nil {
		return err
	}
	if err := writeFailuresSheet(f, report.Failures); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("reporting: save workbook %s: %w", path, err)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, rows []ResultRow) error {
	header := make([]any, len(resultHeader))
	for i, h := range resultHeader {
		header[i] = h
	}
	if err := setRow(f, resultsSheet, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.Identifier,
			r.Title,
			r.PurchasePrice.InexactFloat64(),
			r.EstimatedSalePrice.InexactFloat64(),
			r.NetProfit.InexactFloat64(),
			optionalRatioCell(r.MarginPct),
			optionalRatioCell(r.ROIPct),
			string(r.Verdict),
			joinReasons(r.Reasons),
			r.Notes,
		}
		if err := setRow(f, resultsSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeFailuresSheet(f *excelize.File, rows []FailureRow) error {
	header := make([]any, len(failureHeader))
	for i, h := range failureHeader {
		header[i] = h
	}
	if err := setRow(f, failuresSheet, 1, header); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.Identifier,
			r.PurchasePrice.InexactFloat64(),
			string(r.Status),
			r.Reason,
			r.Notes,
		}
		if err := setRow(f, failuresSheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("reporting: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("reporting: write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// optionalRatioCell leaves undefined ratios blank in the workbook.
func optionalRatioCell(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

// Package ingest reads candidate batches from delimited files.
//
// The expected input is a CSV or TSV file with a header row naming at
// least the "asin" and "buy_price" columns. An optional "notes" column
// is carried through to the output report untouched.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"asin-scout/internal/domain"
)

// RowError describes one rejected input row. Line is 1-based and counts
// the header row, matching what a user sees in a spreadsheet editor.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

// Reader parses candidate files. The zero value reads comma-separated
// input; set Comma to '\t' for TSV.
type Reader struct {
	Comma rune
}

// Read parses all rows from r. Malformed rows are collected as RowErrors
// rather than aborting the batch; the returned error is reserved for
// input that cannot be parsed at all (missing header, unreadable stream).
func (rd Reader) Read(r io.Reader) ([]domain.Candidate, []RowError, error) {
	cr := csv.NewReader(r)
	if rd.Comma != 0 {
		cr.Comma = rd.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("ingest: empty input")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, nil, err
	}

	var (
		candidates []domain.Candidate
		rowErrs    []RowError
		line       = 1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}

		cand, err := parseRow(record, cols)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		candidates = append(candidates, cand)
	}

	return candidates, rowErrs, nil
}

// columns holds resolved header positions. notes is -1 when absent.
type columns struct {
	asin  int
	price int
	notes int
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{asin: -1, price: -1, notes: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "asin", "identifier":
			cols.asin = i
		case "buy_price", "purchase_price":
			cols.price = i
		case "notes":
			cols.notes = i
		}
	}
	if cols.asin == -1 {
		return cols, fmt.Errorf("ingest: header is missing an asin column")
	}
	if cols.price == -1 {
		return cols, fmt.Errorf("ingest: header is missing a buy_price column")
	}
	return cols, nil
}

func parseRow(record []string, cols columns) (domain.Candidate, error) {
	if cols.asin >= len(record) || cols.price >= len(record) {
		return domain.Candidate{}, fmt.Errorf("row has %d fields, expected at least %d", len(record), cols.price+1)
	}

	identifier := strings.TrimSpace(record[cols.asin])
	if identifier == "" {
		return domain.Candidate{}, fmt.Errorf("empty identifier")
	}

	raw := strings.TrimSpace(record[cols.price])
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("parse buy_price %q: %w", raw, err)
	}
	if !price.IsPositive() {
		return domain.Candidate{}, fmt.Errorf("buy_price must be positive, got %s", price)
	}

	cand := domain.Candidate{Identifier: identifier, PurchasePrice: price}
	if cols.notes != -1 && cols.notes < len(record) {
		cand.Notes = strings.TrimSpace(record[cols.notes])
	}
	return cand, nil
}

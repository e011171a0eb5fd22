package domain

import "github.com/shopspring/decimal"

// Candidate is one (identifier, purchase price) pair under evaluation.
// Immutable once read from the input table.
type Candidate struct {
	Identifier    string          // opaque product key (ASIN), non-empty
	PurchasePrice decimal.Decimal // prospective purchase cost, > 0
	Notes         string          // free-text passthrough from the input row
}

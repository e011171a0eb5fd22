// Package storage defines persistence contracts for evaluation outcomes and
// archived snapshots. The evaluation core never touches these; they back the
// output-table and provider-cache collaborators only.
package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"asin-scout/internal/domain"
)

// OutcomeRecord is the flattened persisted form of one candidate's
// evaluation outcome within a run. Nil pointer fields mean the value was
// never computed (failed or cancelled candidates).
type OutcomeRecord struct {
	RunID      string
	Position   int // input order within the run
	Identifier string
	Title      string

	PurchasePrice decimal.Decimal
	Status        string // DECIDED | FAILED | CANCELLED

	Verdict            *string
	Reasons            []string
	EstimatedSalePrice *decimal.Decimal
	NetProfit          *decimal.Decimal
	MarginPct          *decimal.Decimal
	ROIPct             *decimal.Decimal

	FailureReason *string
	EvaluatedAt   time.Time
}

// OutcomeStore persists per-run evaluation outcomes.
type OutcomeStore interface {
	// InsertBatch appends all records of one run. Returns ErrDuplicateKey if
	// a (run_id, position) pair already exists.
	InsertBatch(ctx context.Context, records []*OutcomeRecord) error

	// GetByRunID returns a run's records ordered by input position.
	// Returns ErrNotFound when the run is unknown.
	GetByRunID(ctx context.Context, runID string) ([]*OutcomeRecord, error)
}

// SnapshotArchive accumulates fetched market snapshots for later analysis.
// It lives on the provider side of the boundary: archive failures must never
// fail a fetch, and archived data is never consulted during evaluation.
type SnapshotArchive interface {
	Insert(ctx context.Context, snap *domain.MarketSnapshot, fetchedAt time.Time) error
}

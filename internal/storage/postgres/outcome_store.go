package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"asin-scout/internal/storage"
)

// OutcomeStore implements storage.OutcomeStore using PostgreSQL.
type OutcomeStore struct {
	pool *Pool
}

// NewOutcomeStore creates a new OutcomeStore.
func NewOutcomeStore(pool *Pool) *OutcomeStore {
	return &OutcomeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// InsertBatch appends all records of one run inside a single transaction.
// Returns ErrDuplicateKey if a (run_id, position) pair already exists.
func (s *OutcomeStore) InsertBatch(ctx context.Context, records []*storage.OutcomeRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Identifier == "" {
			return storage.ErrInvalidInput
		}
	}

	query := `
		INSERT INTO evaluation_outcomes (
			run_id, position, identifier, title, purchase_price, status,
			verdict, reasons, estimated_sale_price, net_profit,
			margin_pct, roi_pct, failure_reason, evaluated_at
		) VALUES (
			$1, $2, $3, $4, $5::numeric, $6,
			$7, $8, $9::numeric, $10::numeric,
			$11::numeric, $12::numeric, $13, $14
		)
	`

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin outcome batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, query,
			r.RunID,
			r.Position,
			r.Identifier,
			r.Title,
			r.PurchasePrice.String(),
			r.Status,
			r.Verdict,
			r.Reasons,
			decimalText(r.EstimatedSalePrice),
			decimalText(r.NetProfit),
			decimalText(r.MarginPct),
			decimalText(r.ROIPct),
			r.FailureReason,
			r.EvaluatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert outcome %s/%d: %w", r.RunID, r.Position, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit outcome batch: %w", err)
	}
	return nil
}

// GetByRunID returns a run's records ordered by input position.
func (s *OutcomeStore) GetByRunID(ctx context.Context, runID string) ([]*storage.OutcomeRecord, error) {
	query := `
		SELECT run_id, position, identifier, title, purchase_price::text, status,
		       verdict, reasons, estimated_sale_price::text, net_profit::text,
		       margin_pct::text, roi_pct::text, failure_reason, evaluated_at
		FROM evaluation_outcomes
		WHERE run_id = $1
		ORDER BY position ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes by run id: %w", err)
	}
	defer rows.Close()

	var records []*storage.OutcomeRecord
	for rows.Next() {
		r, err := scanOutcome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	if len(records) == 0 {
		return nil, storage.ErrNotFound
	}
	return records, nil
}

func scanOutcome(row pgx.Row) (*storage.OutcomeRecord, error) {
	var (
		r             storage.OutcomeRecord
		purchasePrice string
		sale          *string
		net           *string
		margin        *string
		roi           *string
	)

	err := row.Scan(
		&r.RunID,
		&r.Position,
		&r.Identifier,
		&r.Title,
		&purchasePrice,
		&r.Status,
		&r.Verdict,
		&r.Reasons,
		&sale,
		&net,
		&margin,
		&roi,
		&r.FailureReason,
		&r.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.PurchasePrice, err = decimal.NewFromString(purchasePrice)
	if err != nil {
		return nil, fmt.Errorf("parse purchase_price: %w", err)
	}
	if r.EstimatedSalePrice, err = parseDecimalText(sale); err != nil {
		return nil, fmt.Errorf("parse estimated_sale_price: %w", err)
	}
	if r.NetProfit, err = parseDecimalText(net); err != nil {
		return nil, fmt.Errorf("parse net_profit: %w", err)
	}
	if r.MarginPct, err = parseDecimalText(margin); err != nil {
		return nil, fmt.Errorf("parse margin_pct: %w", err)
	}
	if r.ROIPct, err = parseDecimalText(roi); err != nil {
		return nil, fmt.Errorf("parse roi_pct: %w", err)
	}
	return &r, nil
}

// decimalText renders an optional decimal for a nullable numeric column.
func decimalText(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimalText(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

package clickhouse

import (
	"context"
	"fmt"
	"time"

	"asin-scout/internal/domain"
	"asin-scout/internal/storage"
)

// SnapshotArchive implements storage.SnapshotArchive using ClickHouse.
// Archived rows feed offline market-history analysis; nothing in the
// evaluation path reads them back.
type SnapshotArchive struct {
	conn *Conn
}

// NewSnapshotArchive creates a new SnapshotArchive.
func NewSnapshotArchive(conn *Conn) *SnapshotArchive {
	return &SnapshotArchive{conn: conn}
}

// Compile-time interface check.
var _ storage.SnapshotArchive = (*SnapshotArchive)(nil)

// Insert records one fetched snapshot.
func (a *SnapshotArchive) Insert(ctx context.Context, snap *domain.MarketSnapshot, fetchedAt time.Time) error {
	if snap == nil || snap.Identifier == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO snapshot_archive (
			identifier, title, fetched_at,
			current_price, avg_price_30d, avg_price_90d, avg_price_180d,
			buybox_price, buybox_is_amazon, sales_rank, rank_volatility, offer_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	buyboxIsAmazon := uint8(0)
	if snap.BuyBoxIsAmazon {
		buyboxIsAmazon = 1
	}

	err := a.conn.Exec(ctx, query,
		snap.Identifier,
		snap.Title,
		fetchedAt.UTC(),
		snap.CurrentPrice,
		snap.AvgPrice30d,
		snap.AvgPrice90d,
		snap.AvgPrice180d,
		snap.BuyBoxPrice,
		buyboxIsAmazon,
		snap.SalesRank,
		snap.RankVolatility,
		int32(snap.OfferCount),
	)
	if err != nil {
		return fmt.Errorf("insert archived snapshot: %w", err)
	}
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"

	"asin-scout/internal/domain"
	"asin-scout/internal/storage"
)

// ArchivedSnapshot is one archived fetch.
type ArchivedSnapshot struct {
	Snapshot  domain.MarketSnapshot
	FetchedAt time.Time
}

// SnapshotArchive is an in-memory implementation of storage.SnapshotArchive.
type SnapshotArchive struct {
	mu      sync.RWMutex
	entries []ArchivedSnapshot
}

// NewSnapshotArchive creates a new in-memory snapshot archive.
func NewSnapshotArchive() *SnapshotArchive {
	return &SnapshotArchive{}
}

// Compile-time interface check.
var _ storage.SnapshotArchive = (*SnapshotArchive)(nil)

// Insert records one fetched snapshot.
func (a *SnapshotArchive) Insert(_ context.Context, snap *domain.MarketSnapshot, fetchedAt time.Time) error {
	if snap == nil || snap.Identifier == "" {
		return storage.ErrInvalidInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, ArchivedSnapshot{Snapshot: *snap, FetchedAt: fetchedAt})
	return nil
}

// Entries returns a copy of everything archived so far, in insert order.
func (a *SnapshotArchive) Entries() []ArchivedSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]ArchivedSnapshot, len(a.entries))
	copy(out, a.entries)
	return out
}

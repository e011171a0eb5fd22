package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asin-scout/internal/domain"
	"asin-scout/internal/storage/memory"
)

type stubProvider struct {
	snap *domain.MarketSnapshot
	err  error
}

func (s *stubProvider) FetchSnapshot(ctx context.Context, identifier string) (*domain.MarketSnapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snap, nil
}

type failingArchive struct{}

func (f *failingArchive) Insert(ctx context.Context, snap *domain.MarketSnapshot, fetchedAt time.Time) error {
	return fmt.Errorf("archive unavailable")
}

func sampleSnapshot() *domain.MarketSnapshot {
	price := decimal.RequireFromString("24.80")
	return &domain.MarketSnapshot{Identifier: "B00TEST001", BuyBoxPrice: &price}
}

func TestRecordingProvider_ArchivesSuccessfulFetch(t *testing.T) {
	archive := memory.NewSnapshotArchive()
	p := NewRecording(&stubProvider{snap: sampleSnapshot()}, archive, nil)

	snap, err := p.FetchSnapshot(context.Background(), "B00TEST001")
	require.NoError(t, err)
	assert.Equal(t, "B00TEST001", snap.Identifier)

	entries := archive.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "B00TEST001", entries[0].Snapshot.Identifier)
	assert.False(t, entries[0].FetchedAt.IsZero())
}

func TestRecordingProvider_FetchErrorNotArchived(t *testing.T) {
	archive := memory.NewSnapshotArchive()
	p := NewRecording(&stubProvider{err: ErrNotFound}, archive, nil)

	_, err := p.FetchSnapshot(context.Background(), "B00TEST001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, archive.Entries())
}

func TestRecordingProvider_ArchiveFailureDoesNotFailFetch(t *testing.T) {
	p := NewRecording(&stubProvider{snap: sampleSnapshot()}, &failingArchive{}, nil)

	snap, err := p.FetchSnapshot(context.Background(), "B00TEST001")
	require.NoError(t, err, "archive failures must stay invisible to callers")
	assert.NotNil(t, snap)
}

package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"asin-scout/internal/domain"
	"asin-scout/internal/storage"
)

// RecordingProvider decorates a Provider with snapshot archiving, so every
// successful fetch accumulates market history for offline analysis. Archive
// failures are logged and swallowed; they must never fail the fetch.
type RecordingProvider struct {
	inner   Provider
	archive storage.SnapshotArchive
	logger  *zap.Logger
	now     func() time.Time
}

// NewRecording wraps inner with archiving.
func NewRecording(inner Provider, archive storage.SnapshotArchive, logger *zap.Logger) *RecordingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingProvider{
		inner:   inner,
		archive: archive,
		logger:  logger,
		now:     time.Now,
	}
}

// Compile-time interface check.
var _ Provider = (*RecordingProvider)(nil)

// FetchSnapshot fetches from the wrapped provider and archives the result.
func (p *RecordingProvider) FetchSnapshot(ctx context.Context, identifier string) (*domain.MarketSnapshot, error) {
	snap, err := p.inner.FetchSnapshot(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if aerr := p.archive.Insert(ctx, snap, p.now().UTC()); aerr != nil {
		p.logger.Warn("snapshot archive write failed",
			zap.String("identifier", identifier),
			zap.Error(aerr),
		)
	}
	return snap, nil
}

// Package provider defines the narrow market-data contract the evaluation
// engine depends on. The engine never sees any specific provider's wire
// protocol, only snapshots and the error taxonomy below.
package provider

import (
	"context"
	"errors"

	"asin-scout/internal/domain"
)

// Provider supplies market snapshots for product identifiers.
type Provider interface {
	FetchSnapshot(ctx context.Context, identifier string) (*domain.MarketSnapshot, error)
}

// Provider error taxonomy. Implementations wrap these sentinels so callers
// can classify failures without knowing the transport.
var (
	// ErrNotFound means the identifier is unknown to the provider.
	// Never retried.
	ErrNotFound = errors.New("product not found")

	// ErrRateLimited means the provider is throttling. Retried with backoff.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrTransient covers timeouts and other temporary transport failures.
	// Retried with backoff.
	ErrTransient = errors.New("transient provider error")
)

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}

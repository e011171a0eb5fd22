package memory

import (
	"context"
	"sort"
	"sync"

	"asin-scout/internal/storage"
)

// OutcomeStore is an in-memory implementation of storage.OutcomeStore.
type OutcomeStore struct {
	mu   sync.RWMutex
	data map[string][]*storage.OutcomeRecord // keyed by run_id
}

// NewOutcomeStore creates a new in-memory outcome store.
func NewOutcomeStore() *OutcomeStore {
	return &OutcomeStore{
		data: make(map[string][]*storage.OutcomeRecord),
	}
}

// Compile-time interface check.
var _ storage.OutcomeStore = (*OutcomeStore)(nil)

// InsertBatch appends all records of one run.
func (s *OutcomeStore) InsertBatch(_ context.Context, records []*storage.OutcomeRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.RunID == "" || r.Identifier == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		runID    string
		position int
	}
	seen := make(map[key]struct{})
	for _, r := range records {
		k := key{r.RunID, r.Position}
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	for runID, existing := range s.data {
		for _, r := range existing {
			if _, dup := seen[key{runID, r.Position}]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	for _, r := range records {
		// Store copies to prevent external mutation.
		recordCopy := *r
		s.data[r.RunID] = append(s.data[r.RunID], &recordCopy)
	}
	return nil
}

// GetByRunID returns a run's records ordered by input position.
func (s *OutcomeStore) GetByRunID(_ context.Context, runID string) ([]*storage.OutcomeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[runID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]*storage.OutcomeRecord, len(records))
	for i, r := range records {
		recordCopy := *r
		out[i] = &recordCopy
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

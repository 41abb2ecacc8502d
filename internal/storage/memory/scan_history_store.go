package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// ScanHistoryStore is an in-memory implementation of storage.ScanHistoryStore.
type ScanHistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]*domain.ScanEntry // keyed by mint
}

// NewScanHistoryStore creates a new in-memory scan history store.
func NewScanHistoryStore() *ScanHistoryStore {
	return &ScanHistoryStore{
		entries: make(map[string][]*domain.ScanEntry),
	}
}

var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)

// Insert appends one scan entry.
func (s *ScanHistoryStore) Insert(_ context.Context, e *domain.ScanEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *e
	entryCopy.Reasons = append([]string(nil), e.Reasons...)
	s.entries[e.Mint] = append(s.entries[e.Mint], &entryCopy)
	return nil
}

// GetByMint retrieves all entries for a mint, ordered by scanned_at ASC.
func (s *ScanHistoryStore) GetByMint(_ context.Context, mint string) ([]*domain.ScanEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[mint]
	result := make([]*domain.ScanEntry, 0, len(stored))
	for _, e := range stored {
		entryCopy := *e
		entryCopy.Reasons = append([]string(nil), e.Reasons...)
		result = append(result, &entryCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScannedAt < result[j].ScannedAt
	})
	return result, nil
}

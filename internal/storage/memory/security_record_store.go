package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// SecurityRecordStore is an in-memory implementation of storage.SecurityRecordStore.
type SecurityRecordStore struct {
	mu     sync.RWMutex
	byMint map[string]*domain.SecurityRecord
}

// NewSecurityRecordStore creates a new in-memory security record store.
func NewSecurityRecordStore() *SecurityRecordStore {
	return &SecurityRecordStore{
		byMint: make(map[string]*domain.SecurityRecord),
	}
}

var _ storage.SecurityRecordStore = (*SecurityRecordStore)(nil)

// Upsert inserts or refreshes the record for a mint. An existing nonzero
// FirstSeenOn is never overwritten; nil enrichment fields keep their
// previous values.
func (s *SecurityRecordStore) Upsert(_ context.Context, r *domain.SecurityRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recCopy := *r
	if prev, exists := s.byMint[r.Mint]; exists {
		if prev.FirstSeenOn != 0 {
			recCopy.FirstSeenOn = prev.FirstSeenOn
		}
		if recCopy.Name == nil {
			recCopy.Name = prev.Name
		}
		if recCopy.Symbol == nil {
			recCopy.Symbol = prev.Symbol
		}
		if recCopy.Supply == nil {
			recCopy.Supply = prev.Supply
		}
		if recCopy.Decimals == nil {
			recCopy.Decimals = prev.Decimals
		}
	}
	s.byMint[r.Mint] = &recCopy
	return nil
}

// GetByMint retrieves the record for a mint. Returns ErrNotFound if not exists.
func (s *SecurityRecordStore) GetByMint(_ context.Context, mint string) (*domain.SecurityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	recCopy := *r
	return &recCopy, nil
}

// ListPending retrieves never-scanned or UNKNOWN records, stalest first.
func (s *SecurityRecordStore) ListPending(_ context.Context, limit int) ([]*domain.SecurityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*domain.SecurityRecord
	for _, r := range s.byMint {
		if r.FirstSeenOn == 0 || r.SecurityStatus == domain.StatusUnknown {
			recCopy := *r
			pending = append(pending, &recCopy)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].LastUpdated < pending[j].LastUpdated
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// ListByStatus retrieves all records with the given security status.
func (s *SecurityRecordStore) ListByStatus(_ context.Context, status string) ([]*domain.SecurityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*domain.SecurityRecord
	for _, r := range s.byMint {
		if r.SecurityStatus == status {
			recCopy := *r
			records = append(records, &recCopy)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].LastUpdated < records[j].LastUpdated
	})
	return records, nil
}

// CountByStatus returns record counts grouped by security status.
func (s *SecurityRecordStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, r := range s.byMint {
		counts[r.SecurityStatus]++
	}
	return counts, nil
}

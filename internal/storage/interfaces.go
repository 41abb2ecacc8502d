package storage

import (
	"context"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
)

// SecurityRecordStore provides access to security_records storage.
// Records are keyed by mint and updated in place on every scan.
type SecurityRecordStore interface {
	// Upsert inserts or refreshes the record for a mint. FirstSeenOn is
	// set on first insert only and never overwritten by later scans.
	Upsert(ctx context.Context, r *domain.SecurityRecord) error

	// GetByMint retrieves the record for a mint. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.SecurityRecord, error)

	// ListPending retrieves records that still need scanning: never
	// scanned (FirstSeenOn zero) or stuck at UNKNOWN. Ordered by
	// LastUpdated ASC so the stalest records come first. limit <= 0
	// means no limit.
	ListPending(ctx context.Context, limit int) ([]*domain.SecurityRecord, error)

	// ListByStatus retrieves all records with the given security status.
	ListByStatus(ctx context.Context, status string) ([]*domain.SecurityRecord, error)

	// CountByStatus returns record counts grouped by security status.
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// ScanHistoryStore provides access to scan_history storage.
// History is append-only: one row per completed scan.
type ScanHistoryStore interface {
	// Insert appends one scan entry.
	Insert(ctx context.Context, e *domain.ScanEntry) error

	// GetByMint retrieves all entries for a mint, ordered by scanned_at ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.ScanEntry, error)
}

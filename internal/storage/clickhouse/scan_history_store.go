package clickhouse

import (
	"context"
	"fmt"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// ScanHistoryStore implements storage.ScanHistoryStore using ClickHouse.
type ScanHistoryStore struct {
	conn *Conn
}

// NewScanHistoryStore creates a new ScanHistoryStore.
func NewScanHistoryStore(conn *Conn) *ScanHistoryStore {
	return &ScanHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ScanHistoryStore = (*ScanHistoryStore)(nil)

// Insert appends one scan entry.
func (s *ScanHistoryStore) Insert(ctx context.Context, e *domain.ScanEntry) error {
	if e == nil || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO scan_history (
			mint, scanned_at, slot, security_status, reasons, parse_fail
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	reasons := e.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	err = batch.Append(
		e.Mint,
		uint64(e.ScannedAt),
		uint64(e.Slot),
		e.SecurityStatus,
		reasons,
		e.ParseFail,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMint retrieves all entries for a mint, ordered by scanned_at ASC.
func (s *ScanHistoryStore) GetByMint(ctx context.Context, mint string) ([]*domain.ScanEntry, error) {
	query := `
		SELECT mint, scanned_at, slot, security_status, reasons, parse_fail
		FROM scan_history
		WHERE mint = ?
		ORDER BY scanned_at ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query scan history by mint: %w", err)
	}
	defer rows.Close()

	var entries []*domain.ScanEntry
	for rows.Next() {
		var (
			e         domain.ScanEntry
			scannedAt uint64
			slot      uint64
		)
		err := rows.Scan(
			&e.Mint,
			&scannedAt,
			&slot,
			&e.SecurityStatus,
			&e.Reasons,
			&e.ParseFail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.ScannedAt = int64(scannedAt)
		e.Slot = int64(slot)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan history rows: %w", err)
	}

	return entries, nil
}

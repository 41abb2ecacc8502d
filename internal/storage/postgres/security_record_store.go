package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// SecurityRecordStore implements storage.SecurityRecordStore using PostgreSQL.
type SecurityRecordStore struct {
	pool *Pool
}

// NewSecurityRecordStore creates a new SecurityRecordStore.
func NewSecurityRecordStore(pool *Pool) *SecurityRecordStore {
	return &SecurityRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SecurityRecordStore = (*SecurityRecordStore)(nil)

const securityRecordColumns = `
	mint, mint_authority_exist, freeze_authority_exist, metadata_mutable,
	security_status, health_summary, is_token_2022, name, symbol,
	supply, decimals, first_seen_on, last_updated
`

// Upsert inserts or refreshes the record for a mint. A zero first_seen_on
// in the existing row is treated as never-scanned and may be set; a
// nonzero one is never overwritten.
func (s *SecurityRecordStore) Upsert(ctx context.Context, r *domain.SecurityRecord) error {
	if r == nil || r.Mint == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO security_records (` + securityRecordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (mint) DO UPDATE SET
			mint_authority_exist = EXCLUDED.mint_authority_exist,
			freeze_authority_exist = EXCLUDED.freeze_authority_exist,
			metadata_mutable = EXCLUDED.metadata_mutable,
			security_status = EXCLUDED.security_status,
			health_summary = EXCLUDED.health_summary,
			is_token_2022 = EXCLUDED.is_token_2022,
			name = COALESCE(EXCLUDED.name, security_records.name),
			symbol = COALESCE(EXCLUDED.symbol, security_records.symbol),
			supply = COALESCE(EXCLUDED.supply, security_records.supply),
			decimals = COALESCE(EXCLUDED.decimals, security_records.decimals),
			first_seen_on = CASE
				WHEN security_records.first_seen_on = 0 THEN EXCLUDED.first_seen_on
				ELSE security_records.first_seen_on
			END,
			last_updated = EXCLUDED.last_updated
	`

	_, err := s.pool.Exec(ctx, query,
		r.Mint,
		r.MintAuthorityExist,
		r.FreezeAuthorityExist,
		r.MetadataMutable,
		r.SecurityStatus,
		r.HealthSummary,
		r.IsToken2022,
		r.Name,
		r.Symbol,
		r.Supply,
		r.Decimals,
		r.FirstSeenOn,
		r.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert security record: %w", err)
	}
	return nil
}

// GetByMint retrieves the record for a mint. Returns ErrNotFound if not exists.
func (s *SecurityRecordStore) GetByMint(ctx context.Context, mint string) (*domain.SecurityRecord, error) {
	query := `
		SELECT ` + securityRecordColumns + `
		FROM security_records
		WHERE mint = $1
	`

	row := s.pool.QueryRow(ctx, query, mint)
	r, err := scanSecurityRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get security record by mint: %w", err)
	}
	return r, nil
}

// ListPending retrieves never-scanned or UNKNOWN records, stalest first.
func (s *SecurityRecordStore) ListPending(ctx context.Context, limit int) ([]*domain.SecurityRecord, error) {
	query := `
		SELECT ` + securityRecordColumns + `
		FROM security_records
		WHERE first_seen_on = 0 OR security_status = $1
		ORDER BY last_updated ASC
	`
	args := []interface{}{domain.StatusUnknown}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending security records: %w", err)
	}
	defer rows.Close()

	return scanSecurityRecords(rows)
}

// ListByStatus retrieves all records with the given security status.
func (s *SecurityRecordStore) ListByStatus(ctx context.Context, status string) ([]*domain.SecurityRecord, error) {
	query := `
		SELECT ` + securityRecordColumns + `
		FROM security_records
		WHERE security_status = $1
		ORDER BY last_updated ASC
	`

	rows, err := s.pool.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list security records by status: %w", err)
	}
	defer rows.Close()

	return scanSecurityRecords(rows)
}

// CountByStatus returns record counts grouped by security status.
func (s *SecurityRecordStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT security_status, COUNT(*)
		FROM security_records
		GROUP BY security_status
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count security records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}

	return counts, nil
}

// scanSecurityRecord scans a single row into SecurityRecord.
func scanSecurityRecord(row pgx.Row) (*domain.SecurityRecord, error) {
	var r domain.SecurityRecord

	err := row.Scan(
		&r.Mint,
		&r.MintAuthorityExist,
		&r.FreezeAuthorityExist,
		&r.MetadataMutable,
		&r.SecurityStatus,
		&r.HealthSummary,
		&r.IsToken2022,
		&r.Name,
		&r.Symbol,
		&r.Supply,
		&r.Decimals,
		&r.FirstSeenOn,
		&r.LastUpdated,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// scanSecurityRecords collects all rows of a result set.
func scanSecurityRecords(rows pgx.Rows) ([]*domain.SecurityRecord, error) {
	var records []*domain.SecurityRecord
	for rows.Next() {
		r, err := scanSecurityRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan security record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security records: %w", err)
	}
	return records, nil
}

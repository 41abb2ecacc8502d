package domain

// Security status values persisted to the ledger.
const (
	StatusSafe    = "SAFE"
	StatusDanger  = "DANGER"
	StatusUnknown = "UNKNOWN"
)

// Mutability tri-state for the metadata_mutable column.
const (
	MutableYes     = "1"
	MutableNo      = "0"
	MutableUnknown = "unknown"
)

// SecurityRecord is the persisted scan result for one mint.
// Corresponds to the security_records table in PostgreSQL.
type SecurityRecord struct {
	Mint                 string // PK, base58 mint address
	MintAuthorityExist   bool
	FreezeAuthorityExist bool
	MetadataMutable      string // MutableYes, MutableNo or MutableUnknown
	SecurityStatus       string // StatusSafe, StatusDanger or StatusUnknown
	HealthSummary        string // free-text reason summary
	IsToken2022          bool
	Name                 *string  // from metadata account (nullable)
	Symbol               *string  // from metadata account (nullable)
	Supply               *float64 // decimal-adjusted supply (nullable)
	Decimals             *int
	FirstSeenOn          int64 // ms, set on first scan, never overwritten
	LastUpdated          int64 // ms, refreshed on every scan
}

// ScanEntry is one append-only row of scan history.
// Corresponds to the scan_history table in ClickHouse.
type ScanEntry struct {
	Mint           string
	ScannedAt      int64 // ms
	Slot           int64
	SecurityStatus string
	Reasons        []string // reason tags in evaluation order
	ParseFail      bool
}

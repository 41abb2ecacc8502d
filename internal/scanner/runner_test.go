package scanner

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/classification"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/inspection"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/splmint"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage/memory"
)

// stubFetcher serves accounts from a fixed map.
type stubFetcher struct {
	accounts map[string]*domain.RawAccount
	errs     map[string]error
}

func (s *stubFetcher) Fetch(_ context.Context, address string) (*domain.RawAccount, error) {
	if err, ok := s.errs[address]; ok {
		return nil, err
	}
	return s.accounts[address], nil
}

func testKey(seed byte) string {
	b := make([]byte, 32)
	for i := range b {
		b[i] = seed
	}
	return base58.Encode(b)
}

func buildLegacyMint(mintAuth, freezeAuth *string) []byte {
	buf := make([]byte, 82)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
		raw, _ := base58.Decode(*mintAuth)
		copy(buf[4:36], raw)
	}
	binary.LittleEndian.PutUint64(buf[36:44], 5000000)
	buf[44] = 6 // decimals
	buf[45] = 1 // initialized
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(buf[46:50], 1)
		raw, _ := base58.Decode(*freezeAuth)
		copy(buf[50:82], raw)
	}
	return buf
}

func buildMetadata(mutable bool) []byte {
	buf := []byte{4}
	buf = append(buf, make([]byte, 64)...)
	for _, s := range []string{"Runner Coin", "RUN", "https://example.com/r.json"} {
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(len(s)))
		buf = append(buf, l[:]...)
		buf = append(buf, s...)
	}
	buf = append(buf, 0, 0)
	buf = append(buf, 0)
	buf = append(buf, 0)
	if mutable {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

func testRunner(fetcher inspection.AccountFetcher, records *memory.SecurityRecordStore, history storage.ScanHistoryStore) *Runner {
	logger := log.New(io.Discard, "", 0)
	return NewRunner(RunnerOptions{
		Inspector: inspection.NewInspector(inspection.InspectorOptions{
			Fetcher: fetcher,
			Logger:  logger,
		}),
		RecordStore:  records,
		HistoryStore: history,
		RequestDelay: time.Millisecond,
		BatchPause:   10 * time.Millisecond,
		Logger:       logger,
	})
}

func TestRunner_ScanMint(t *testing.T) {
	mint := testKey(0x01)
	auth := testKey(0x02)
	derived, err := splmint.DeriveMetadataAddress(mint)
	if err != nil {
		t.Fatalf("DeriveMetadataAddress: %v", err)
	}

	fetcher := &stubFetcher{accounts: map[string]*domain.RawAccount{
		mint:    {Owner: splmint.TokenProgramID, Data: buildLegacyMint(&auth, nil), Slot: 777},
		derived: {Owner: splmint.MetadataProgramID, Data: buildMetadata(false)},
	}}

	records := memory.NewSecurityRecordStore()
	history := memory.NewScanHistoryStore()
	runner := testRunner(fetcher, records, history)

	result, err := runner.ScanMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("ScanMint: %v", err)
	}

	if result.Verdict != classification.VerdictDanger {
		t.Fatalf("expected DANGER, got %s", result.Verdict)
	}

	rec, err := records.GetByMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if !rec.MintAuthorityExist || rec.FreezeAuthorityExist {
		t.Errorf("authority flags mismatch: %+v", rec)
	}
	if rec.SecurityStatus != domain.StatusDanger {
		t.Errorf("status mismatch: %s", rec.SecurityStatus)
	}
	if rec.HealthSummary != "Danger - mintable" {
		t.Errorf("summary mismatch: %q", rec.HealthSummary)
	}
	if rec.MetadataMutable != domain.MutableNo {
		t.Errorf("mutability mismatch: %s", rec.MetadataMutable)
	}
	if rec.Name == nil || *rec.Name != "Runner Coin" {
		t.Errorf("name mismatch: %v", rec.Name)
	}
	if rec.Supply == nil || *rec.Supply != 5.0 {
		t.Errorf("expected decimal-adjusted supply 5.0, got %v", rec.Supply)
	}
	if rec.Decimals == nil || *rec.Decimals != 6 {
		t.Errorf("decimals mismatch: %v", rec.Decimals)
	}
	if rec.FirstSeenOn == 0 || rec.LastUpdated == 0 {
		t.Errorf("timestamps not set: %+v", rec)
	}

	entries, err := history.GetByMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("history GetByMint: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Slot != 777 {
		t.Errorf("history slot mismatch: %d", entries[0].Slot)
	}
	if len(entries[0].Reasons) != 1 || entries[0].Reasons[0] != "MINTABLE" {
		t.Errorf("history reasons mismatch: %v", entries[0].Reasons)
	}
}

func TestRunner_ScanMintNoHistory(t *testing.T) {
	mint := testKey(0x03)
	derived, _ := splmint.DeriveMetadataAddress(mint)

	fetcher := &stubFetcher{accounts: map[string]*domain.RawAccount{
		mint:    {Owner: splmint.TokenProgramID, Data: buildLegacyMint(nil, nil)},
		derived: {Owner: splmint.MetadataProgramID, Data: buildMetadata(false)},
	}}

	records := memory.NewSecurityRecordStore()
	runner := testRunner(fetcher, records, nil)

	// History is optional; a nil store must not be dereferenced.
	result, err := runner.ScanMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("ScanMint: %v", err)
	}
	if result.Verdict != classification.VerdictSafe {
		t.Errorf("expected SAFE, got %s", result.Verdict)
	}

	rec, err := records.GetByMint(context.Background(), mint)
	if err != nil {
		t.Fatalf("GetByMint: %v", err)
	}
	if rec.SecurityStatus != domain.StatusSafe {
		t.Errorf("status mismatch: %s", rec.SecurityStatus)
	}
}

func TestRunner_ScanPending(t *testing.T) {
	ctx := context.Background()

	cleanMint := testKey(0x11)
	malformedMint := testKey(0x12)
	missingMint := testKey(0x13)

	cleanDerived, _ := splmint.DeriveMetadataAddress(cleanMint)

	fetcher := &stubFetcher{accounts: map[string]*domain.RawAccount{
		cleanMint:     {Owner: splmint.TokenProgramID, Data: buildLegacyMint(nil, nil)},
		cleanDerived:  {Owner: splmint.MetadataProgramID, Data: buildMetadata(false)},
		malformedMint: {Owner: splmint.TokenProgramID, Data: make([]byte, 40)},
	}}

	records := memory.NewSecurityRecordStore()
	for _, mint := range []string{cleanMint, malformedMint, missingMint} {
		seed := &domain.SecurityRecord{
			Mint:            mint,
			MetadataMutable: domain.MutableUnknown,
			SecurityStatus:  domain.StatusUnknown,
		}
		if err := records.Upsert(ctx, seed); err != nil {
			t.Fatalf("seed Upsert: %v", err)
		}
	}

	runner := testRunner(fetcher, records, memory.NewScanHistoryStore())

	scanned, err := runner.ScanPending(ctx)
	if err != nil {
		t.Fatalf("ScanPending: %v", err)
	}
	if scanned != 3 {
		t.Fatalf("expected 3 scanned, got %d", scanned)
	}

	clean, _ := records.GetByMint(ctx, cleanMint)
	if clean.SecurityStatus != domain.StatusSafe {
		t.Errorf("clean mint: expected SAFE, got %s", clean.SecurityStatus)
	}

	// Malformed account degrades to DANGER without aborting the batch
	malformed, _ := records.GetByMint(ctx, malformedMint)
	if malformed.SecurityStatus != domain.StatusDanger {
		t.Errorf("malformed mint: expected DANGER, got %s", malformed.SecurityStatus)
	}

	missing, _ := records.GetByMint(ctx, missingMint)
	if missing.SecurityStatus != domain.StatusUnknown {
		t.Errorf("missing mint: expected UNKNOWN, got %s", missing.SecurityStatus)
	}
	if missing.HealthSummary != "No data" {
		t.Errorf("missing mint summary mismatch: %q", missing.HealthSummary)
	}
}

func TestRunner_ScanPendingTransportError(t *testing.T) {
	ctx := context.Background()

	badMint := testKey(0x21)
	goodMint := testKey(0x22)
	goodDerived, _ := splmint.DeriveMetadataAddress(goodMint)

	fetcher := &stubFetcher{
		accounts: map[string]*domain.RawAccount{
			goodMint:    {Owner: splmint.TokenProgramID, Data: buildLegacyMint(nil, nil)},
			goodDerived: {Owner: splmint.MetadataProgramID, Data: buildMetadata(false)},
		},
		errs: map[string]error{badMint: errors.New("rpc unreachable")},
	}

	records := memory.NewSecurityRecordStore()
	for i, mint := range []string{badMint, goodMint} {
		seed := &domain.SecurityRecord{
			Mint:            mint,
			MetadataMutable: domain.MutableUnknown,
			SecurityStatus:  domain.StatusUnknown,
			LastUpdated:     int64(i),
		}
		if err := records.Upsert(ctx, seed); err != nil {
			t.Fatalf("seed Upsert: %v", err)
		}
	}

	runner := testRunner(fetcher, records, nil)

	// The unreachable mint is skipped, the rest of the batch proceeds.
	scanned, err := runner.ScanPending(ctx)
	if err != nil {
		t.Fatalf("ScanPending: %v", err)
	}
	if scanned != 1 {
		t.Fatalf("expected 1 scanned, got %d", scanned)
	}

	good, _ := records.GetByMint(ctx, goodMint)
	if good.SecurityStatus != domain.StatusSafe {
		t.Errorf("good mint: expected SAFE, got %s", good.SecurityStatus)
	}
}

func TestRunner_ScanPendingEmpty(t *testing.T) {
	runner := testRunner(&stubFetcher{}, memory.NewSecurityRecordStore(), nil)

	scanned, err := runner.ScanPending(context.Background())
	if err != nil {
		t.Fatalf("ScanPending: %v", err)
	}
	if scanned != 0 {
		t.Errorf("expected 0 scanned, got %d", scanned)
	}
}

func TestRunner_RunStopsOnCancel(t *testing.T) {
	runner := testRunner(&stubFetcher{}, memory.NewSecurityRecordStore(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := runner.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

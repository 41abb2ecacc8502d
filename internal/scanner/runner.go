package scanner

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/classification"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/inspection"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/observability"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// Default pacing values. The request delay keeps the scanner inside
// public RPC rate limits (15 requests per second).
const (
	DefaultRequestDelay = time.Second / 15
	DefaultBatchSize    = 15
	DefaultBatchPause   = 2 * time.Second
)

// Runner drives batch scanning of pending mints from the record store.
type Runner struct {
	inspector    *inspection.Inspector
	records      storage.SecurityRecordStore
	history      storage.ScanHistoryStore
	requestDelay time.Duration
	batchSize    int
	batchPause   time.Duration
	metrics      *observability.Metrics
	logger       *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Inspector    *inspection.Inspector
	RecordStore  storage.SecurityRecordStore
	HistoryStore storage.ScanHistoryStore // optional, nil disables history
	RequestDelay time.Duration
	BatchSize    int
	BatchPause   time.Duration
	Metrics      *observability.Metrics
	Logger       *log.Logger
}

// NewRunner creates a new scan runner.
func NewRunner(opts RunnerOptions) *Runner {
	requestDelay := opts.RequestDelay
	if requestDelay == 0 {
		requestDelay = DefaultRequestDelay
	}

	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}

	batchPause := opts.BatchPause
	if batchPause == 0 {
		batchPause = DefaultBatchPause
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		inspector:    opts.Inspector,
		records:      opts.RecordStore,
		history:      opts.HistoryStore,
		requestDelay: requestDelay,
		batchSize:    batchSize,
		batchPause:   batchPause,
		metrics:      metrics,
		logger:       logger,
	}
}

// Run scans pending mints in batches until the context is cancelled.
// It blocks between batches so a steady trickle of new mints gets
// picked up without hammering the RPC endpoint.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Printf("[scanner] Runner started, batch size %d, request delay %v", r.batchSize, r.requestDelay)

	for {
		scanned, err := r.ScanPending(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Println("[scanner] Runner stopping...")
				return ctx.Err()
			}
			r.logger.Printf("[scanner] Batch failed: %v", err)
		}

		if scanned > 0 {
			r.metrics.BatchesComplete.Inc()
		}

		select {
		case <-ctx.Done():
			r.logger.Println("[scanner] Runner stopping...")
			return ctx.Err()
		case <-time.After(r.batchPause):
		}
	}
}

// ScanPending scans one batch of pending mints and returns how many
// were processed. A single malformed or unreachable mint never aborts
// the batch.
func (r *Runner) ScanPending(ctx context.Context) (int, error) {
	pending, err := r.records.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending: %w", err)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	tally := map[string]int{}
	scanned := 0

	for i, rec := range pending {
		result, err := r.ScanMint(ctx, rec.Mint)
		if err != nil {
			if ctx.Err() != nil {
				return scanned, ctx.Err()
			}
			r.metrics.ScanErrors.WithLabelValues("scan").Inc()
			r.logger.Printf("[scanner] Scan %s failed: %v", rec.Mint, err)
			continue
		}

		tally[string(result.Verdict)]++
		scanned++

		// Pace requests, skip the delay after the last mint
		if i < len(pending)-1 {
			select {
			case <-ctx.Done():
				return scanned, ctx.Err()
			case <-time.After(r.requestDelay):
			}
		}
	}

	r.logger.Printf("[scanner] Batch complete: %d scanned, SAFE=%d DANGER=%d UNKNOWN=%d",
		scanned, tally[domain.StatusSafe], tally[domain.StatusDanger], tally[domain.StatusUnknown])

	return scanned, nil
}

// ScanMint inspects and classifies one mint, then writes the ledger
// record and appends a history row.
func (r *Runner) ScanMint(ctx context.Context, mint string) (*classification.Result, error) {
	started := time.Now()

	report, err := r.inspector.Inspect(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	result := classification.Classify(classification.Input{
		AccountFound:    report.AccountFound,
		OwnerRecognized: report.OwnerRecognized,
		Facts:           report.Facts,
		Metadata:        report.Metadata,
	})

	now := time.Now().UnixMilli()
	record := buildRecord(mint, report, result, now)

	if err := r.records.Upsert(ctx, record); err != nil {
		r.metrics.ScanErrors.WithLabelValues("upsert").Inc()
		return nil, fmt.Errorf("upsert record: %w", err)
	}

	if r.history != nil {
		entry := &domain.ScanEntry{
			Mint:           mint,
			ScannedAt:      now,
			Slot:           report.Slot,
			SecurityStatus: string(result.Verdict),
			Reasons:        classification.ReasonStrings(result.Reasons),
		}
		if report.Facts != nil {
			entry.ParseFail = report.Facts.ParseFail
		}
		if err := r.history.Insert(ctx, entry); err != nil {
			// History is best-effort, the ledger row already landed
			r.metrics.ScanErrors.WithLabelValues("history").Inc()
			r.logger.Printf("[scanner] History insert %s failed: %v", mint, err)
		}
	}

	r.metrics.ScansTotal.Inc()
	r.metrics.ScanVerdicts.WithLabelValues(string(result.Verdict)).Inc()
	r.metrics.InspectionLatency.Observe(time.Since(started).Seconds())
	r.metrics.LastSuccessfulScan.SetToCurrentTime()
	if report.Facts != nil && report.Facts.ParseFail {
		layout := "legacy"
		if report.Facts.IsToken2022 {
			layout = "token2022"
		}
		r.metrics.DecodeFailures.WithLabelValues(layout).Inc()
	}
	if report.Slot > 0 {
		r.metrics.HighestSlotSeen.Set(float64(report.Slot))
	}

	return result, nil
}

// buildRecord merges inspection facts and the verdict into the
// persisted ledger row.
func buildRecord(mint string, report *inspection.Report, result *classification.Result, now int64) *domain.SecurityRecord {
	record := &domain.SecurityRecord{
		Mint:            mint,
		MetadataMutable: result.MetadataMutable,
		SecurityStatus:  string(result.Verdict),
		HealthSummary:   result.Summary,
		FirstSeenOn:     now,
		LastUpdated:     now,
	}

	if facts := report.Facts; facts != nil {
		record.MintAuthorityExist = facts.MintAuthority != nil
		record.FreezeAuthorityExist = facts.FreezeAuthority != nil
		record.IsToken2022 = facts.IsToken2022

		if report.AccountFound && report.OwnerRecognized && !facts.ParseFail {
			decimals := int(facts.Decimals)
			supply := float64(facts.Supply) / math.Pow10(decimals)
			record.Decimals = &decimals
			record.Supply = &supply
		}
	}

	if meta := report.Metadata; meta != nil {
		if meta.Name != "" {
			name := meta.Name
			record.Name = &name
		}
		if meta.Symbol != "" {
			symbol := meta.Symbol
			record.Symbol = &symbol
		}
	}

	return record
}

package scanner

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/observability"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/solana"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
)

// Watcher keeps already-scanned mints under account subscription and
// re-scans them when their on-chain state changes. This catches both
// directions: an authority revocation turning a mint safe and metadata
// turning mutable after launch.
type Watcher struct {
	ws      solana.WSClient
	runner  *Runner
	records storage.SecurityRecordStore
	metrics *observability.Metrics
	logger  *log.Logger

	mu      sync.Mutex
	watched map[string]struct{}
	wg      sync.WaitGroup
}

// WatcherOptions contains configuration for creating a Watcher.
type WatcherOptions struct {
	WSClient    solana.WSClient
	Runner      *Runner
	RecordStore storage.SecurityRecordStore
	Metrics     *observability.Metrics
	Logger      *log.Logger
}

// NewWatcher creates a new account watcher.
func NewWatcher(opts WatcherOptions) *Watcher {
	metrics := opts.Metrics
	if metrics == nil {
		metrics = observability.DefaultMetrics
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Watcher{
		ws:      opts.WSClient,
		runner:  opts.Runner,
		records: opts.RecordStore,
		metrics: metrics,
		logger:  logger,
		watched: make(map[string]struct{}),
	}
}

// Run subscribes to every mint with a settled verdict and blocks until
// the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for _, status := range []string{domain.StatusSafe, domain.StatusDanger} {
		recs, err := w.records.ListByStatus(ctx, status)
		if err != nil {
			return fmt.Errorf("list %s records: %w", status, err)
		}
		for _, rec := range recs {
			if err := w.Watch(ctx, rec.Mint); err != nil {
				w.logger.Printf("[watcher] Subscribe %s failed: %v", rec.Mint, err)
			}
		}
	}

	w.mu.Lock()
	count := len(w.watched)
	w.mu.Unlock()
	w.logger.Printf("[watcher] Watching %d mints", count)

	<-ctx.Done()
	w.logger.Println("[watcher] Stopping...")
	w.wg.Wait()
	return ctx.Err()
}

// Watch subscribes to one mint. Watching an already-watched mint is a no-op.
func (w *Watcher) Watch(ctx context.Context, mint string) error {
	w.mu.Lock()
	if _, exists := w.watched[mint]; exists {
		w.mu.Unlock()
		return nil
	}
	w.watched[mint] = struct{}{}
	w.mu.Unlock()

	ch, err := w.ws.SubscribeAccount(ctx, mint)
	if err != nil {
		w.mu.Lock()
		delete(w.watched, mint)
		w.mu.Unlock()
		return fmt.Errorf("subscribe account %s: %w", mint, err)
	}

	w.metrics.WatchedAccounts.Inc()
	w.wg.Add(1)
	go w.consume(ctx, mint, ch)
	return nil
}

// consume handles account change notifications for one mint.
func (w *Watcher) consume(ctx context.Context, mint string, ch <-chan solana.AccountNotification) {
	defer w.wg.Done()
	defer w.metrics.WatchedAccounts.Dec()

	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-ch:
			if !ok {
				return
			}
			w.metrics.AccountUpdatesHandled.Inc()
			w.logger.Printf("[watcher] Account change for %s at slot %d", mint, notif.Slot)
			w.rescan(ctx, mint)
		}
	}
}

// rescan re-runs the full inspection for a changed mint and reports
// verdict transitions.
func (w *Watcher) rescan(ctx context.Context, mint string) {
	prev := ""
	if rec, err := w.records.GetByMint(ctx, mint); err == nil {
		prev = rec.SecurityStatus
	}

	result, err := w.runner.ScanMint(ctx, mint)
	if err != nil {
		w.logger.Printf("[watcher] Rescan %s failed: %v", mint, err)
		return
	}

	next := string(result.Verdict)
	if prev != "" && prev != next {
		w.metrics.VerdictTransitions.WithLabelValues(prev, next).Inc()
		w.logger.Printf("[watcher] Verdict for %s changed %s -> %s", mint, prev, next)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SquelchySolana/TheCoinWifsperer/internal/domain"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/inspection"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/observability"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/scanner"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/solana"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage"
	chstore "github.com/SquelchySolana/TheCoinWifsperer/internal/storage/clickhouse"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage/memory"
	"github.com/SquelchySolana/TheCoinWifsperer/internal/storage/migrations"
	pgstore "github.com/SquelchySolana/TheCoinWifsperer/internal/storage/postgres"
)

func main() {
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for scan history (empty to disable)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	mints := flag.String("mints", "", "Comma-separated mint addresses to seed into the ledger")
	once := flag.Bool("once", false, "Scan one batch and exit instead of running continuously")
	batchSize := flag.Int("batch-size", scanner.DefaultBatchSize, "Mints per scan batch")
	requestDelay := flag.Duration("request-delay", scanner.DefaultRequestDelay, "Delay between per-mint scans")
	batchPause := flag.Duration("batch-pause", scanner.DefaultBatchPause, "Pause between scan batches")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[scan] ", log.LstdFlags|log.Lshortfile)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err := run(ctx, logger, *rpcEndpoint, *postgresDSN, *clickhouseDSN, *mints,
		*useMemory, *once, *batchSize, *requestDelay, *batchPause)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, rpcEndpoint, postgresDSN, clickhouseDSN, mints string,
	useMemory, once bool, batchSize int, requestDelay, batchPause time.Duration) error {

	if rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}
	if !useMemory && postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	rpc := solana.NewHTTPClient(rpcEndpoint)

	slot, err := rpc.GetSlot(ctx)
	if err != nil {
		return fmt.Errorf("rpc connectivity check: %w", err)
	}
	logger.Printf("Connected to RPC, current slot %d", slot)

	var recordStore storage.SecurityRecordStore = memory.NewSecurityRecordStore()
	var historyStore storage.ScanHistoryStore

	if !useMemory {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}

		recordStore = pgstore.NewSecurityRecordStore(pool)
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()

		historyStore = chstore.NewScanHistoryStore(conn)
	} else if useMemory {
		historyStore = memory.NewScanHistoryStore()
	}

	seeded, err := seedMints(ctx, recordStore, mints)
	if err != nil {
		return err
	}
	if len(seeded) > 0 {
		reportMissingSeeds(ctx, logger, rpc, seeded)
	}

	inspector := inspection.NewInspector(inspection.InspectorOptions{
		Fetcher: inspection.NewRPCFetcher(rpc),
		Logger:  logger,
	})

	runner := scanner.NewRunner(scanner.RunnerOptions{
		Inspector:    inspector,
		RecordStore:  recordStore,
		HistoryStore: historyStore,
		RequestDelay: requestDelay,
		BatchSize:    batchSize,
		BatchPause:   batchPause,
		Logger:       logger,
	})

	if once {
		scanned, err := runner.ScanPending(ctx)
		if err != nil {
			return err
		}
		logger.Printf("Scanned %d mints", scanned)
		logCounts(ctx, logger, recordStore)
		return nil
	}

	logger.Println("Starting continuous scan...")
	return runner.Run(ctx)
}

// seedMints inserts unscanned ledger rows for explicitly requested mints
// and returns the addresses that were seeded.
func seedMints(ctx context.Context, store storage.SecurityRecordStore, mints string) ([]string, error) {
	if mints == "" {
		return nil, nil
	}

	var seeded []string
	for _, mint := range strings.Split(mints, ",") {
		mint = strings.TrimSpace(mint)
		if mint == "" {
			continue
		}
		record := &domain.SecurityRecord{
			Mint:            mint,
			MetadataMutable: domain.MutableUnknown,
			SecurityStatus:  domain.StatusUnknown,
		}
		if err := store.Upsert(ctx, record); err != nil {
			return nil, fmt.Errorf("seed mint %s: %w", mint, err)
		}
		seeded = append(seeded, mint)
	}
	return seeded, nil
}

// reportMissingSeeds flags seeded mints with no account on chain, in one
// getMultipleAccounts round trip. Advisory only; the scan loop classifies
// missing accounts UNKNOWN regardless.
func reportMissingSeeds(ctx context.Context, logger *log.Logger, rpc *solana.HTTPClient, mints []string) {
	infos, err := rpc.GetMultipleAccounts(ctx, mints)
	if err != nil {
		logger.Printf("Seed lookup failed: %v", err)
		return
	}
	for i, info := range infos {
		if info == nil {
			logger.Printf("Seeded mint %s has no account on chain", mints[i])
		}
	}
}

// logCounts prints the ledger tally after a one-shot scan.
func logCounts(ctx context.Context, logger *log.Logger, store storage.SecurityRecordStore) {
	counts, err := store.CountByStatus(ctx)
	if err != nil {
		logger.Printf("Count by status failed: %v", err)
		return
	}
	logger.Printf("Ledger totals: SAFE=%d DANGER=%d UNKNOWN=%d",
		counts[domain.StatusSafe], counts[domain.StatusDanger], counts[domain.StatusUnknown])
}

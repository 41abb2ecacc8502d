package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for scan history (empty to disable)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", ":9091", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	logger := log.New(os.Stdout, "[watch] ", log.LstdFlags|log.Lshortfile)

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

	err := run(ctx, logger, *rpcEndpoint, *wsEndpoint, *postgresDSN, *clickhouseDSN, *useMemory)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

func run(ctx context.Context, logger *log.Logger, rpcEndpoint, wsEndpoint, postgresDSN, clickhouseDSN string, useMemory bool) error {
	if rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}
	if wsEndpoint == "" {
		return fmt.Errorf("--ws-endpoint is required")
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

	ws, err := solana.NewWSClient(ctx, wsEndpoint, nil)
	if err != nil {
		return fmt.Errorf("create websocket client: %w", err)
	}
	defer ws.Close()

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

	inspector := inspection.NewInspector(inspection.InspectorOptions{
		Fetcher: inspection.NewRPCFetcher(rpc),
		Logger:  logger,
	})

	runner := scanner.NewRunner(scanner.RunnerOptions{
		Inspector:    inspector,
		RecordStore:  recordStore,
		HistoryStore: historyStore,
		Logger:       logger,
	})

	watcher := scanner.NewWatcher(scanner.WatcherOptions{
		WSClient:    ws,
		Runner:      runner,
		RecordStore: recordStore,
		Logger:      logger,
	})

	logger.Println("Starting account watcher...")
	return watcher.Run(ctx)
}

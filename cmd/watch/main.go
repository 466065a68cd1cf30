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

	"pumpwatch/internal/enrichment"
	"pumpwatch/internal/jupiter"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/pipeline"
	"pumpwatch/internal/pumpfun"
	"pumpwatch/internal/reporting"
	"pumpwatch/internal/solana"
	"pumpwatch/internal/storage"
	chstore "pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/memory"
	"pumpwatch/internal/storage/migrations"
	pgstore "pumpwatch/internal/storage/postgres"
	"pumpwatch/internal/watcher"
)

// Defaults point at the public endpoints the original deployment used.
const (
	defaultWatchedAddress = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	defaultTradesURL      = "https://frontend-api.pump.fun/trades/all"
	defaultPriceURL       = "https://api.jup.ag/price/v2"
)

func main() {
	// Parse flags
	wsEndpoint := flag.String("ws-endpoint", "", "Solana WebSocket endpoint")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint")
	address := flag.String("address", defaultWatchedAddress, "Watched program address (mentions filter)")
	tradesURL := flag.String("trades-url", defaultTradesURL, "Trade-history API base URL")
	priceURL := flag.String("price-url", defaultPriceURL, "Price-quote API base URL")
	output := flag.String("output", "report.json", "Report output file path")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for durable reports")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the trade archive")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of databases")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics HTTP address (empty to disable)")

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

	err := run(ctx, logger, *wsEndpoint, *rpcEndpoint, *address, *tradesURL, *priceURL,
		*output, *postgresDSN, *clickhouseDSN, *useMemory)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires the watcher to the launch pipeline and blocks until shutdown.
func run(ctx context.Context, logger *log.Logger, wsEndpoint, rpcEndpoint, address,
	tradesURL, priceURL, output, postgresDSN, clickhouseDSN string, useMemory bool) error {

	if wsEndpoint == "" {
		return fmt.Errorf("--ws-endpoint is required")
	}
	if rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}
	if !solana.ValidPubkey(address) {
		return fmt.Errorf("--address %q is not a valid pubkey", address)
	}
	if !useMemory && postgresDSN == "" && clickhouseDSN == "" {
		logger.Println("No database configured; reports go to the output file only (use --use-memory to silence this)")
	}

	rpc := solana.NewHTTPClient(rpcEndpoint)

	ws, err := solana.NewWSClient(ctx, wsEndpoint, nil)
	if err != nil {
		return fmt.Errorf("create websocket client: %w", err)
	}
	defer ws.Close()

	// Report sinks: the file artifact always, postgres when configured.
	sinks := reporting.MultiSink{reporting.NewFileSink(output)}
	if useMemory {
		sinks = append(sinks, reporting.NewStoreSink(memory.NewReportStore()))
	} else if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run postgres migrations: %w", err)
		}
		sinks = append(sinks, reporting.NewStoreSink(pgstore.NewReportStore(pool)))
	}

	// Trade archive, best-effort.
	var archive storage.TradeStore
	if useMemory {
		archive = memory.NewTradeStore()
	} else if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("run clickhouse migrations: %w", err)
		}
		defer conn.Close()
		archive = chstore.NewTradeStore(conn)
	}

	trades := pumpfun.NewClient(tradesURL)
	prices := jupiter.NewClient(priceURL)
	builder := reporting.NewBuilder(
		enrichment.NewEnricher(rpc),
		prices,
		reporting.WithLogger(log.New(os.Stdout, "[report] ", log.LstdFlags)),
	)

	p := pipeline.New(rpc, trades, builder, sinks, pipeline.Options{
		Archive: archive,
		Logger:  log.New(os.Stdout, "[pipeline] ", log.LstdFlags),
	})

	w := watcher.New(ws, p.HandleLaunch, watcher.Options{
		Address: address,
		Logger:  log.New(os.Stdout, "[watcher] ", log.LstdFlags),
	})

	logger.Printf("Watching %s via %s", address, wsEndpoint)
	return w.Run(ctx)
}

// Command report rebuilds launch reports offline from the archived trade
// feed, re-running aggregation, enrichment, and pricing without a live
// log subscription.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pumpwatch/internal/aggregation"
	"pumpwatch/internal/enrichment"
	"pumpwatch/internal/jupiter"
	"pumpwatch/internal/reporting"
	"pumpwatch/internal/solana"
	chstore "pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/migrations"
	pgstore "pumpwatch/internal/storage/postgres"
)

func main() {
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string for the trade archive")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint for holdings enrichment")
	priceURL := flag.String("price-url", "https://api.jup.ag/price/v2", "Price-quote API base URL")
	mint := flag.String("mint", "", "Rebuild a single mint (default: all archived mints)")
	output := flag.String("output", "report.json", "Report output file path")
	csvPath := flag.String("csv", "", "Also write a per-trader CSV summary to this path")
	markdownPath := flag.String("markdown", "", "Also write a Markdown summary to this path")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for durable reports")

	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags|log.Lshortfile)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, *clickhouseDSN, *rpcEndpoint, *priceURL, *mint, *output, *csvPath, *markdownPath, *postgresDSN); err != nil {
		logger.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, clickhouseDSN, rpcEndpoint, priceURL, mint, output, csvPath, markdownPath, postgresDSN string) error {
	if clickhouseDSN == "" {
		return fmt.Errorf("--clickhouse-dsn is required")
	}
	if rpcEndpoint == "" {
		return fmt.Errorf("--rpc-endpoint is required")
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		return fmt.Errorf("connect clickhouse: %w", err)
	}
	defer conn.Close()
	archive := chstore.NewTradeStore(conn)

	mints := []string{mint}
	if mint == "" {
		mints, err = archive.ListMints(ctx)
		if err != nil {
			return fmt.Errorf("list archived mints: %w", err)
		}
	}
	if len(mints) == 0 {
		return fmt.Errorf("trade archive is empty")
	}
	logger.Printf("Rebuilding reports for %d mint(s)", len(mints))

	inputs := make([]reporting.MintInput, 0, len(mints))
	for _, m := range mints {
		trades, err := archive.GetByMint(ctx, m)
		if err != nil {
			return fmt.Errorf("read archived trades for %s: %w", m, err)
		}
		stats, span := aggregation.Aggregate(trades)
		inputs = append(inputs, reporting.MintInput{Mint: m, Stats: stats, Span: span})
	}

	rpc := solana.NewHTTPClient(rpcEndpoint)
	builder := reporting.NewBuilder(
		enrichment.NewEnricher(rpc),
		jupiter.NewClient(priceURL),
		reporting.WithLogger(logger),
	)

	report, err := builder.Build(ctx, inputs)
	if err != nil {
		return fmt.Errorf("build reports: %w", err)
	}

	sinks := reporting.MultiSink{reporting.NewFileSink(output)}
	if postgresDSN != "" {
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

	if err := sinks.Write(ctx, report); err != nil {
		return fmt.Errorf("persist reports: %w", err)
	}

	if csvPath != "" {
		if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report)), 0o644); err != nil {
			return fmt.Errorf("write csv summary: %w", err)
		}
	}
	if markdownPath != "" {
		if err := os.WriteFile(markdownPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			return fmt.Errorf("write markdown summary: %w", err)
		}
	}

	logger.Printf("Wrote %d report(s) to %s", len(report), output)
	return nil
}

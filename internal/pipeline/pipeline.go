// Package pipeline runs the per-launch processing chain: resolve the mint,
// fetch and archive its trade history, aggregate, build the report, and
// persist it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"pumpwatch/internal/aggregation"
	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/reporting"
	"pumpwatch/internal/solana"
	"pumpwatch/internal/storage"
)

// TradeSource fetches the trade history for a mint.
type TradeSource interface {
	GetTrades(ctx context.Context, mint string) ([]domain.TradeRecord, error)
}

// ReportBuilder assembles reports from aggregated mint state.
type ReportBuilder interface {
	Build(ctx context.Context, inputs []reporting.MintInput) (domain.Report, error)
}

// Options configures a Pipeline.
type Options struct {
	// Archive receives the raw trade feed, best-effort. Optional.
	Archive storage.TradeStore

	// Logger for pipeline events. Defaults to stderr.
	Logger *log.Logger
}

// Pipeline processes one launch event at a time; multiple instances of the
// chain may run concurrently, each scoped to its own mint.
type Pipeline struct {
	resolver *Resolver
	trades   TradeSource
	builder  ReportBuilder
	sink     reporting.Sink
	archive  storage.TradeStore
	logger   *log.Logger
}

// New creates a pipeline.
func New(rpc solana.RPCClient, trades TradeSource, builder ReportBuilder, sink reporting.Sink, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[pipeline] ", log.LstdFlags)
	}
	return &Pipeline{
		resolver: NewResolver(rpc),
		trades:   trades,
		builder:  builder,
		sink:     sink,
		archive:  opts.Archive,
		logger:   logger,
	}
}

// HandleLaunch runs the full chain for one launch event. Satisfies
// watcher.Handler; failures are logged, never propagated.
func (p *Pipeline) HandleLaunch(ctx context.Context, event domain.LaunchEvent) {
	observability.RecordPipelineStart()
	start := time.Now()

	err := p.run(ctx, event)
	observability.RecordPipelineResult(err == nil, time.Since(start).Seconds())

	switch {
	case err == nil:
	case errors.Is(err, ErrNoLaunchMint):
		// False positive log line; not a failure worth noise.
	default:
		p.logger.Printf("pipeline for %s abandoned: %v", event.Signature, err)
	}
}

func (p *Pipeline) run(ctx context.Context, event domain.LaunchEvent) error {
	mint, err := p.resolver.ResolveMint(ctx, event.Signature)
	if err != nil {
		return err
	}
	p.logger.Printf("signature %s resolved to mint %s", event.Signature, mint)

	trades, err := p.trades.GetTrades(ctx, mint)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}
	observability.RecordTradesFetched(len(trades))
	p.logger.Printf("mint %s: %d trades fetched", mint, len(trades))

	if p.archive != nil {
		if err := p.archive.InsertTrades(ctx, trades); err != nil {
			p.logger.Printf("mint %s: trade archive write failed: %v", mint, err)
		}
	}

	stats, span := aggregation.Aggregate(trades)

	report, err := p.builder.Build(ctx, []reporting.MintInput{{Mint: mint, Stats: stats, Span: span}})
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	if err := p.sink.Write(ctx, report); err != nil {
		return fmt.Errorf("persist report: %w", err)
	}
	p.logger.Printf("mint %s: report written (%d traders)", mint, len(report[mint].Traders))
	return nil
}

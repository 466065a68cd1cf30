package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/reporting"
	"pumpwatch/internal/solana"
	"pumpwatch/internal/storage/memory"
)

type fakeTradeSource struct {
	trades map[string][]domain.TradeRecord
	err    error
	calls  []string
}

func (f *fakeTradeSource) GetTrades(ctx context.Context, mint string) ([]domain.TradeRecord, error) {
	f.calls = append(f.calls, mint)
	if f.err != nil {
		return nil, f.err
	}
	return f.trades[mint], nil
}

type fakeBuilder struct {
	inputs []reporting.MintInput
	err    error
}

func (f *fakeBuilder) Build(ctx context.Context, inputs []reporting.MintInput) (domain.Report, error) {
	f.inputs = append(f.inputs, inputs...)
	if f.err != nil {
		return nil, f.err
	}
	report := make(domain.Report)
	for _, in := range inputs {
		report[in.Mint] = &domain.MintReport{
			TotalTradersBeforeFilter: len(in.Stats),
			Traders:                  []domain.TraderReport{},
		}
	}
	return report, nil
}

type captureSink struct {
	reports []domain.Report
	err     error
}

func (c *captureSink) Write(ctx context.Context, report domain.Report) error {
	if c.err != nil {
		return c.err
	}
	c.reports = append(c.reports, report)
	return nil
}

func launchTx(mint string) *solana.Transaction {
	return &solana.Transaction{
		Meta: &solana.TransactionMeta{
			PreTokenBalances: []solana.TokenBalance{
				{Mint: domain.WSOLMint},
				{Mint: mint},
			},
		},
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestPipelineEndToEnd(t *testing.T) {
	rpc := &fakeTxRPC{tx: launchTx(mintAddr)}
	trades := &fakeTradeSource{trades: map[string][]domain.TradeRecord{
		mintAddr: {
			{Mint: mintAddr, Trader: "alice", TokenAmount: 5_000_000_000_000, SolAmount: 1_000_000_000, IsBuy: true, Timestamp: 100},
			{Mint: mintAddr, Trader: "alice", TokenAmount: 1_000_000_000_000, SolAmount: 500_000_000, IsBuy: false, Timestamp: 200},
		},
	}}
	builder := &fakeBuilder{}
	sink := &captureSink{}
	archive := memory.NewTradeStore()

	p := New(rpc, trades, builder, sink, Options{Archive: archive, Logger: quietLogger()})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	// Trade source queried for the resolved mint.
	assert.Equal(t, []string{mintAddr}, trades.calls)

	// Aggregated stats reached the builder.
	require.Len(t, builder.inputs, 1)
	in := builder.inputs[0]
	assert.Equal(t, mintAddr, in.Mint)
	require.Contains(t, in.Stats, "alice")
	assert.InDelta(t, 4_000_000, in.Stats["alice"].NetTokenAmount(), 1e-9)
	assert.Equal(t, float64(100), in.Span.Seconds())

	// Report persisted.
	require.Len(t, sink.reports, 1)
	assert.Contains(t, sink.reports[0], mintAddr)

	// Raw feed archived.
	archived, err := archive.GetByMint(context.Background(), mintAddr)
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestPipelineFalsePositiveAbandonsQuietly(t *testing.T) {
	rpc := &fakeTxRPC{tx: &solana.Transaction{
		Meta: &solana.TransactionMeta{
			PreTokenBalances: []solana.TokenBalance{{Mint: domain.WSOLMint}},
		},
	}}
	trades := &fakeTradeSource{}
	sink := &captureSink{}

	p := New(rpc, trades, &fakeBuilder{}, sink, Options{Logger: quietLogger()})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	assert.Empty(t, trades.calls)
	assert.Empty(t, sink.reports)
}

func TestPipelineLookupFailureAbandons(t *testing.T) {
	rpc := &fakeTxRPC{err: errors.New("rpc down")}
	trades := &fakeTradeSource{}
	sink := &captureSink{}

	p := New(rpc, trades, &fakeBuilder{}, sink, Options{Logger: quietLogger()})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	assert.Empty(t, trades.calls)
	assert.Empty(t, sink.reports)
}

func TestPipelineTradeFetchFailureAbandons(t *testing.T) {
	rpc := &fakeTxRPC{tx: launchTx(mintAddr)}
	trades := &fakeTradeSource{err: errors.New("feed down")}
	sink := &captureSink{}

	p := New(rpc, trades, &fakeBuilder{}, sink, Options{Logger: quietLogger()})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	assert.Empty(t, sink.reports)
}

func TestPipelineArchiveFailureIsBestEffort(t *testing.T) {
	rpc := &fakeTxRPC{tx: launchTx(mintAddr)}
	trades := &fakeTradeSource{trades: map[string][]domain.TradeRecord{
		mintAddr: {{Mint: mintAddr, Trader: "alice", TokenAmount: 1, IsBuy: true, Timestamp: 1}},
	}}
	sink := &captureSink{}

	p := New(rpc, trades, &fakeBuilder{}, sink, Options{
		Archive: failingArchive{},
		Logger:  quietLogger(),
	})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	// The report still lands despite the archive failure.
	require.Len(t, sink.reports, 1)
}

func TestPipelineNoTradesStillReports(t *testing.T) {
	rpc := &fakeTxRPC{tx: launchTx(mintAddr)}
	trades := &fakeTradeSource{}
	sink := &captureSink{}

	p := New(rpc, trades, &fakeBuilder{}, sink, Options{Logger: quietLogger()})
	p.HandleLaunch(context.Background(), domain.LaunchEvent{Signature: "sig1"})

	require.Len(t, sink.reports, 1)
	assert.Equal(t, 0, sink.reports[0][mintAddr].TotalTradersBeforeFilter)
}

type failingArchive struct{}

func (failingArchive) InsertTrades(ctx context.Context, trades []domain.TradeRecord) error {
	return errors.New("archive down")
}

func (failingArchive) GetByMint(ctx context.Context, mint string) ([]domain.TradeRecord, error) {
	return nil, errors.New("archive down")
}

func (failingArchive) ListMints(ctx context.Context) ([]string, error) {
	return nil, errors.New("archive down")
}

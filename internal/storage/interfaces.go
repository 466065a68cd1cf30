// Package storage defines the persistence interfaces for reports and the
// trade archive.
package storage

import (
	"context"

	"pumpwatch/internal/domain"
)

// ReportStore persists per-mint launch reports.
type ReportStore interface {
	// UpsertReport inserts or replaces the report for a mint.
	UpsertReport(ctx context.Context, mint string, report *domain.MintReport) error

	// GetReport retrieves the report for a mint. Returns ErrNotFound if absent.
	GetReport(ctx context.Context, mint string) (*domain.MintReport, error)

	// ListMints returns all mints with a stored report, sorted ascending.
	ListMints(ctx context.Context) ([]string, error)
}

// TradeStore archives the raw trade history fetched per launch.
type TradeStore interface {
	// InsertTrades appends a batch of trade records.
	InsertTrades(ctx context.Context, trades []domain.TradeRecord) error

	// GetByMint retrieves all archived trades for a mint, ordered by
	// timestamp ascending. Returns ErrNotFound if the mint was never archived.
	GetByMint(ctx context.Context, mint string) ([]domain.TradeRecord, error)

	// ListMints returns all archived mints, sorted ascending.
	ListMints(ctx context.Context) ([]string, error)
}

package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pumpwatch/internal/domain"
)

// Sink persists a completed Report.
type Sink interface {
	Write(ctx context.Context, report domain.Report) error
}

// FileSink writes the report as pretty-printed JSON to a fixed path,
// replacing the previous artifact wholesale. The write is atomic: a temp
// file in the same directory is renamed over the target.
type FileSink struct {
	path string
}

// NewFileSink creates a file sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Write serializes and persists the report.
func (s *FileSink) Write(_ context.Context, report domain.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace report file: %w", err)
	}
	return nil
}

// MintReportUpserter persists one mint's report.
type MintReportUpserter interface {
	UpsertReport(ctx context.Context, mint string, report *domain.MintReport) error
}

// StoreSink persists each mint's report through a store, upserting per
// mint so repeated runs replace earlier rows.
type StoreSink struct {
	store MintReportUpserter
}

// NewStoreSink creates a store-backed sink.
func NewStoreSink(store MintReportUpserter) *StoreSink {
	return &StoreSink{store: store}
}

// Write upserts every mint entry of the report.
func (s *StoreSink) Write(ctx context.Context, report domain.Report) error {
	for mint, mr := range report {
		if err := s.store.UpsertReport(ctx, mint, mr); err != nil {
			return fmt.Errorf("upsert report for %s: %w", mint, err)
		}
	}
	return nil
}

// MultiSink fans a report out to several sinks, failing on the first error.
type MultiSink []Sink

// Write writes to each sink in order.
func (m MultiSink) Write(ctx context.Context, report domain.Report) error {
	for _, s := range m {
		if err := s.Write(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// Package memory provides in-memory storage implementations for tests and
// database-less runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// ReportStore implements storage.ReportStore in memory.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*domain.MintReport
}

// NewReportStore creates an empty in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]*domain.MintReport)}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// UpsertReport inserts or replaces the report for a mint.
func (s *ReportStore) UpsertReport(_ context.Context, mint string, report *domain.MintReport) error {
	if mint == "" || report == nil {
		return storage.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[mint] = report
	return nil
}

// GetReport retrieves the report for a mint.
func (s *ReportStore) GetReport(_ context.Context, mint string) (*domain.MintReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return report, nil
}

// ListMints returns all mints with a stored report.
func (s *ReportStore) ListMints(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mints := make([]string, 0, len(s.reports))
	for mint := range s.reports {
		mints = append(mints, mint)
	}
	sort.Strings(mints)
	return mints, nil
}

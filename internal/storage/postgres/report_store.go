package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
)

// ReportStore implements storage.ReportStore using PostgreSQL. Reports are
// stored wholesale as jsonb, one row per mint.
type ReportStore struct {
	pool *Pool
}

// NewReportStore creates a new ReportStore.
func NewReportStore(pool *Pool) *ReportStore {
	return &ReportStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// UpsertReport inserts or replaces the report for a mint.
func (s *ReportStore) UpsertReport(ctx context.Context, mint string, report *domain.MintReport) (err error) {
	if mint == "" || report == nil {
		return storage.ErrInvalidInput
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "upsert_report", time.Since(start).Seconds(), err)
	}()

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	query := `
		INSERT INTO mint_reports (mint, report, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (mint) DO UPDATE
		SET report = EXCLUDED.report, updated_at = EXCLUDED.updated_at
	`

	_, err = s.pool.Exec(ctx, query, mint, payload)
	if isDuplicateKeyError(err) {
		// Two concurrent first-time upserts can race past the conflict
		// target; the second attempt lands on the update path.
		_, err = s.pool.Exec(ctx, query, mint, payload)
	}
	if err != nil {
		return fmt.Errorf("upsert report for %s: %w", mint, err)
	}
	return nil
}

// GetReport retrieves the report for a mint.
func (s *ReportStore) GetReport(ctx context.Context, mint string) (*domain.MintReport, error) {
	query := `SELECT report FROM mint_reports WHERE mint = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, mint).Scan(&payload)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get report for %s: %w", mint, err)
	}

	var report domain.MintReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report for %s: %w", mint, err)
	}
	return &report, nil
}

// ListMints returns all mints with a stored report.
func (s *ReportStore) ListMints(ctx context.Context) ([]string, error) {
	query := `SELECT mint FROM mint_reports ORDER BY mint ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list report mints: %w", err)
	}
	defer rows.Close()

	var mints []string
	for rows.Next() {
		var mint string
		if err := rows.Scan(&mint); err != nil {
			return nil, fmt.Errorf("scan mint: %w", err)
		}
		mints = append(mints, mint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report mints: %w", err)
	}
	return mints, nil
}

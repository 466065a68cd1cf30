package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestReportStoreUpsertAndGet(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	report := &domain.MintReport{TotalTradersBeforeFilter: 5, TimeToBond: "0 days, 0 hours, 1 minutes, 0 seconds"}
	require.NoError(t, s.UpsertReport(ctx, "mintA", report))

	got, err := s.GetReport(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 5, got.TotalTradersBeforeFilter)

	// Upsert replaces.
	require.NoError(t, s.UpsertReport(ctx, "mintA", &domain.MintReport{TotalTradersBeforeFilter: 9}))
	got, err = s.GetReport(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 9, got.TotalTradersBeforeFilter)
}

func TestReportStoreNotFound(t *testing.T) {
	s := NewReportStore()
	_, err := s.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportStoreInvalidInput(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()
	assert.ErrorIs(t, s.UpsertReport(ctx, "", &domain.MintReport{}), storage.ErrInvalidInput)
	assert.ErrorIs(t, s.UpsertReport(ctx, "mintA", nil), storage.ErrInvalidInput)
}

func TestReportStoreListMints(t *testing.T) {
	s := NewReportStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertReport(ctx, "b", &domain.MintReport{}))
	require.NoError(t, s.UpsertReport(ctx, "a", &domain.MintReport{}))

	mints, err := s.ListMints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, mints)
}

package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

func TestTradeStoreRoundTrip(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	ctx := context.Background()

	trades := []domain.TradeRecord{
		{Mint: "mintA", Trader: "alice", TokenAmount: 5_000_000_000_000, SolAmount: 2_000_000_000, IsBuy: true, Timestamp: 1_700_000_000},
		{Mint: "mintA", Trader: "bob", TokenAmount: 1_000_000_000_000, SolAmount: 0, IsBuy: false, Timestamp: 1_700_000_100},
		{Mint: "mintB", Trader: "carol", TokenAmount: 42, SolAmount: 7, IsBuy: true, Timestamp: 1_700_000_200},
	}
	require.NoError(t, store.InsertTrades(ctx, trades))

	got, err := store.GetByMint(ctx, "mintA")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Trader)
	assert.True(t, got[0].IsBuy)
	assert.Equal(t, float64(5_000_000_000_000), got[0].TokenAmount)
	assert.Equal(t, "bob", got[1].Trader)
	assert.False(t, got[1].IsBuy)
}

func TestTradeStoreGetByMintNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	_, err := store.GetByMint(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTradeStoreListMints(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTradeStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertTrades(ctx, []domain.TradeRecord{
		{Mint: "zMint", Trader: "a", Timestamp: 1},
		{Mint: "aMint", Trader: "b", Timestamp: 2},
		{Mint: "zMint", Trader: "c", Timestamp: 3},
	}))

	mints, err := store.ListMints(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aMint", "zMint"}, mints)
}

func TestTradeStoreEmptyBatch(t *testing.T) {
	store := NewTradeStore(nil)
	assert.NoError(t, store.InsertTrades(context.Background(), nil))
}

func TestTradeStoreInvalidInput(t *testing.T) {
	store := NewTradeStore(nil)
	err := store.InsertTrades(context.Background(), []domain.TradeRecord{{Trader: "x"}})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

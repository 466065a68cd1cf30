package enrichment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/solana"
)

// fakeRPC implements solana.RPCClient for tests.
type fakeRPC struct {
	accounts    []solana.TokenAccount
	accountsErr error
	balance     uint64
	balanceErr  error
}

func (f *fakeRPC) GetTransaction(ctx context.Context, signature string) (*solana.Transaction, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeRPC) GetTokenAccountsByOwner(ctx context.Context, owner string) ([]solana.TokenAccount, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeRPC) GetBalance(ctx context.Context, address string) (uint64, error) {
	return f.balance, f.balanceErr
}

func TestEnrichBasic(t *testing.T) {
	rpc := &fakeRPC{
		accounts: []solana.TokenAccount{
			{Mint: "mintB", Owner: "alice", Amount: 100, UIAmount: 0.0001},
			{Mint: "mintA", Owner: "alice", Amount: 5000, UIAmount: 0.005},
		},
		balance: 2_500_000_000,
	}

	h, err := NewEnricher(rpc).Enrich(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, h.Accounts, 2)
	assert.Equal(t, "mintA", h.Accounts[0].Mint)
	assert.Equal(t, "mintB", h.Accounts[1].Mint)
	assert.Equal(t, 2.5, h.SolBalance)
}

func TestEnrichKeepsTopFifteen(t *testing.T) {
	rpc := &fakeRPC{}
	for i := 0; i < 20; i++ {
		rpc.accounts = append(rpc.accounts, solana.TokenAccount{
			Mint:   fmt.Sprintf("mint%02d", i),
			Amount: float64(1000 - i),
		})
	}

	h, err := NewEnricher(rpc).Enrich(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, h.Accounts, 15)
	assert.Equal(t, "mint00", h.Accounts[0].Mint)
	assert.Equal(t, "mint14", h.Accounts[14].Mint)
}

func TestEnrichAlwaysKeepsStablecoins(t *testing.T) {
	rpc := &fakeRPC{}
	for i := 0; i < 20; i++ {
		rpc.accounts = append(rpc.accounts, solana.TokenAccount{
			Mint:   fmt.Sprintf("mint%02d", i),
			Amount: float64(1000 - i),
		})
	}
	// USDC ranks dead last but must survive the cut.
	rpc.accounts = append(rpc.accounts, solana.TokenAccount{
		Mint:   domain.USDCMint,
		Amount: 1,
	})

	h, err := NewEnricher(rpc).Enrich(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, h.Accounts, 16)
	assert.Equal(t, domain.USDCMint, h.Accounts[15].Mint)
}

func TestEnrichAccountsError(t *testing.T) {
	rpc := &fakeRPC{accountsErr: errors.New("rpc down")}
	_, err := NewEnricher(rpc).Enrich(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token accounts for alice")
}

func TestEnrichBalanceErrorDefaultsToZero(t *testing.T) {
	rpc := &fakeRPC{
		accounts:   []solana.TokenAccount{{Mint: "mintA", Owner: "alice", Amount: 5000, UIAmount: 0.005}},
		balanceErr: errors.New("rpc down"),
	}

	e := NewEnricher(rpc, WithLogger(log.New(io.Discard, "", 0)))
	h, err := e.Enrich(context.Background(), "alice")
	require.NoError(t, err)

	// The balance lookup is independent of account enumeration; its
	// failure only zeroes the SOL balance.
	require.Len(t, h.Accounts, 1)
	assert.Equal(t, float64(0), h.SolBalance)
}

func TestEnrichNoAccounts(t *testing.T) {
	rpc := &fakeRPC{balance: 1_000_000_000}
	h, err := NewEnricher(rpc).Enrich(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, h.Accounts)
	assert.Equal(t, 1.0, h.SolBalance)
}

package pipeline

import (
	"context"
	"errors"
	"fmt"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/solana"
)

// ErrNoLaunchMint means the transaction carried no usable token mint in
// its pre-balances. The log line was a false positive, not an error worth
// retrying.
var ErrNoLaunchMint = errors.New("no launch mint in pre-balances")

// Resolver maps a launch signature to its token mint.
type Resolver struct {
	rpc solana.RPCClient
}

// NewResolver creates a resolver backed by the given RPC client.
func NewResolver(rpc solana.RPCClient) *Resolver {
	return &Resolver{rpc: rpc}
}

// ResolveMint fetches the transaction and returns the first pre-balance
// mint that is not wrapped SOL. Returns ErrNoLaunchMint when the
// transaction is missing or holds no such entry.
func (r *Resolver) ResolveMint(ctx context.Context, signature string) (string, error) {
	tx, err := r.rpc.GetTransaction(ctx, signature)
	if err != nil {
		return "", fmt.Errorf("fetch transaction %s: %w", signature, err)
	}
	if tx == nil || tx.Meta == nil {
		return "", ErrNoLaunchMint
	}

	for _, bal := range tx.Meta.PreTokenBalances {
		if bal.Mint == domain.WSOLMint {
			continue
		}
		if !solana.ValidPubkey(bal.Mint) {
			continue
		}
		return bal.Mint, nil
	}
	return "", ErrNoLaunchMint
}

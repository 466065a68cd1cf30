package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface the pipeline needs.
type RPCClient interface {
	// GetTransaction retrieves a transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)

	// GetTokenAccountsByOwner enumerates parsed token accounts for an owner,
	// scoped to the SPL token program.
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]TokenAccount, error)

	// GetBalance retrieves the native balance of an address in lamports.
	GetBalance(ctx context.Context, address string) (uint64, error)
}

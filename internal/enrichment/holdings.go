// Package enrichment resolves on-chain holdings for traders surfaced by
// trade aggregation.
package enrichment

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/solana"
)

const (
	// topAccountsKept caps how many token accounts are retained per
	// trader, ranked by raw amount.
	topAccountsKept = 15

	lamportsPerSol = 1e9
)

// Enricher looks up token holdings and SOL balances.
type Enricher struct {
	rpc    solana.RPCClient
	logger *log.Logger
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// NewEnricher creates an enricher backed by the given RPC client.
func NewEnricher(rpc solana.RPCClient, opts ...Option) *Enricher {
	e := &Enricher{
		rpc:    rpc,
		logger: log.New(os.Stderr, "[enrichment] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Holdings is the enrichment result for one trader.
type Holdings struct {
	Accounts   []domain.HoldingAccount
	SolBalance float64
}

// Enrich fetches a trader's token accounts and SOL balance. Accounts are
// ranked by raw amount descending; the top entries are kept, plus any
// account holding an always-included mint regardless of rank. An account
// enumeration failure fails the whole trader; a balance lookup failure
// only defaults the SOL balance to zero.
func (e *Enricher) Enrich(ctx context.Context, trader string) (h *Holdings, err error) {
	defer func() { observability.RecordTraderEnriched(err) }()

	accounts, err := e.rpc.GetTokenAccountsByOwner(ctx, trader)
	if err != nil {
		return nil, fmt.Errorf("token accounts for %s: %w", trader, err)
	}

	lamports, err := e.rpc.GetBalance(ctx, trader)
	if err != nil {
		e.logger.Printf("balance for %s failed, defaulting to 0: %v", trader, err)
		lamports = 0
		err = nil
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Amount > accounts[j].Amount
	})

	kept := make([]domain.HoldingAccount, 0, topAccountsKept)
	for i, acct := range accounts {
		if i >= topAccountsKept && !domain.AlwaysIncludeMints[acct.Mint] {
			continue
		}
		kept = append(kept, domain.HoldingAccount{
			Mint:     acct.Mint,
			Amount:   acct.Amount,
			Owner:    acct.Owner,
			UIAmount: acct.UIAmount,
		})
	}

	return &Holdings{
		Accounts:   kept,
		SolBalance: float64(lamports) / lamportsPerSol,
	}, nil
}

// Package reporting assembles the final per-mint launch reports from
// aggregated trade stats, on-chain holdings, and batched price quotes.
package reporting

import (
	"context"
	"log"
	"os"
	"sort"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrichment"
	"pumpwatch/internal/solana"
)

const (
	// SignificanceThreshold is the minimum net token amount for a trader
	// to be enriched and appear in the detailed report.
	SignificanceThreshold = 2_000_000

	// priceFetchMinBalance gates which held mints get priced at all;
	// allowlisted mints bypass it.
	priceFetchMinBalance = 20_000

	// dustValueThreshold drops holdings below this USD value after pricing.
	dustValueThreshold = 20
)

// HoldingsEnricher resolves a trader's on-chain holdings.
type HoldingsEnricher interface {
	Enrich(ctx context.Context, trader string) (*enrichment.Holdings, error)
}

// PriceClient fetches USD prices for a set of mints.
type PriceClient interface {
	GetPrices(ctx context.Context, mints []string) (map[string]float64, error)
}

// MintInput is the aggregated state for one mint entering report building.
type MintInput struct {
	Mint  string
	Stats map[string]*domain.TraderStats
	Span  domain.TimeSpan
}

// Builder produces Reports from aggregated mint state.
type Builder struct {
	enricher     HoldingsEnricher
	prices       PriceClient
	validAddress func(string) bool
	logger       *log.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithAddressFilter replaces the trader-address predicate. Traders
// rejected by the predicate are not enriched. The default rejects
// off-curve addresses (program-derived accounts posing as traders).
func WithAddressFilter(f func(string) bool) BuilderOption {
	return func(b *Builder) {
		b.validAddress = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a report builder.
func NewBuilder(enricher HoldingsEnricher, prices PriceClient, opts ...BuilderOption) *Builder {
	b := &Builder{
		enricher:     enricher,
		prices:       prices,
		validAddress: solana.IsOnCurve,
		logger:       log.New(os.Stderr, "[report] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// pendingTrader holds a trader between enrichment and pricing.
type pendingTrader struct {
	report   domain.TraderReport
	holdings []domain.HoldingAccount
}

// pendingMint holds one mint's report skeleton until prices arrive.
type pendingMint struct {
	mint    string
	report  *domain.MintReport
	traders []pendingTrader
}

// Build assembles reports for the given mints. Holdings are enriched per
// significant trader; prices are fetched in a single batched pass over the
// union of price-worthy mints across all inputs, then applied to every
// holding. Individual enrichment failures omit that trader only.
func (b *Builder) Build(ctx context.Context, inputs []MintInput) (domain.Report, error) {
	pending := make([]*pendingMint, 0, len(inputs))
	priceSet := make(map[string]bool)

	for _, input := range inputs {
		pm, err := b.collectMint(ctx, input, priceSet)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pm)
	}

	prices := b.fetchPrices(ctx, priceSet)

	report := make(domain.Report, len(pending))
	for _, pm := range pending {
		for _, pt := range pm.traders {
			pm.report.Traders = append(pm.report.Traders, priceTrader(pt, prices))
		}
		report[pm.mint] = pm.report
	}
	return report, nil
}

// collectMint runs the pre-pricing phase for one mint: exited-trader
// accounting, significance filtering, and holdings enrichment.
func (b *Builder) collectMint(ctx context.Context, input MintInput, priceSet map[string]bool) (*pendingMint, error) {
	pm := &pendingMint{
		mint: input.Mint,
		report: &domain.MintReport{
			TotalTradersBeforeFilter: len(input.Stats),
			TimeToBond:               FormatDuration(input.Span.Seconds()),
			Traders:                  []domain.TraderReport{},
		},
	}

	significant := make([]*domain.TraderStats, 0, len(input.Stats))
	for _, stats := range input.Stats {
		if stats.BuyTokenAmount == 0 && stats.SellTokenAmount > 0 {
			pm.report.TotalSoldByExited += stats.SellTokenAmount
		}
		if stats.NetTokenAmount() >= SignificanceThreshold {
			significant = append(significant, stats)
		}
	}

	// Deterministic order: heaviest traders first, address as tie-break.
	sort.Slice(significant, func(i, j int) bool {
		if significant[i].TotalTraded() != significant[j].TotalTraded() {
			return significant[i].TotalTraded() > significant[j].TotalTraded()
		}
		return significant[i].User < significant[j].User
	})

	for _, stats := range significant {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !b.validAddress(stats.User) {
			b.logger.Printf("mint %s: skipping off-curve trader %s", input.Mint, stats.User)
			continue
		}

		holdings, err := b.enricher.Enrich(ctx, stats.User)
		if err != nil {
			b.logger.Printf("mint %s: enrichment failed for %s: %v", input.Mint, stats.User, err)
			continue
		}
		if len(holdings.Accounts) == 0 {
			// A trader with no token accounts left nothing to report.
			continue
		}

		for _, acct := range holdings.Accounts {
			if acct.UIAmount >= priceFetchMinBalance || domain.AlwaysIncludeMints[acct.Mint] {
				priceSet[acct.Mint] = true
			}
		}

		pm.traders = append(pm.traders, pendingTrader{
			report: domain.TraderReport{
				Trader:         stats.User,
				SolBalance:     holdings.SolBalance,
				NetTokenAmount: stats.NetTokenAmount(),
			},
			holdings: holdings.Accounts,
		})
	}
	return pm, nil
}

// fetchPrices resolves the union price set. A price-client failure yields
// an empty map; holdings then value at zero rather than failing the run.
func (b *Builder) fetchPrices(ctx context.Context, priceSet map[string]bool) map[string]float64 {
	if len(priceSet) == 0 {
		return map[string]float64{}
	}

	mints := make([]string, 0, len(priceSet))
	for mint := range priceSet {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	prices, err := b.prices.GetPrices(ctx, mints)
	if err != nil {
		b.logger.Printf("price fetch for %d mints failed: %v", len(mints), err)
		return map[string]float64{}
	}
	return prices
}

// priceTrader applies prices to one trader's holdings and computes the
// value totals. Totals cover every priced account; the dust filter only
// trims the reported account list.
func priceTrader(pt pendingTrader, prices map[string]float64) domain.TraderReport {
	tr := pt.report
	tr.Accounts = []domain.HoldingAccount{}

	for _, acct := range pt.holdings {
		acct.Price = prices[acct.Mint]
		acct.Value = acct.UIAmount * acct.Price
		tr.TotalValue += acct.Value
		if domain.StablecoinMints[acct.Mint] {
			tr.StablecoinValue += acct.Value
		}
		if acct.Value < dustValueThreshold {
			continue
		}
		tr.Accounts = append(tr.Accounts, acct)
	}

	sort.SliceStable(tr.Accounts, func(i, j int) bool {
		if tr.Accounts[i].Value != tr.Accounts[j].Value {
			return tr.Accounts[i].Value > tr.Accounts[j].Value
		}
		return tr.Accounts[i].Mint < tr.Accounts[j].Mint
	})

	tr.TotalValue += tr.SolBalance
	return tr
}

// Package aggregation folds raw trade history into per-trader statistics.
package aggregation

import (
	"pumpwatch/internal/domain"
)

const (
	// tokenDecimals divides raw token amounts into UI units.
	tokenDecimals = 1e6

	// lamportsPerSol divides raw SOL amounts into whole SOL.
	lamportsPerSol = 1e9
)

// Aggregate folds a trade history into per-trader totals and the
// observed trading time span. Raw amounts are converted to UI units:
// token amounts divide by 10^6, SOL amounts by 10^9.
func Aggregate(trades []domain.TradeRecord) (map[string]*domain.TraderStats, domain.TimeSpan) {
	stats := make(map[string]*domain.TraderStats)
	var span domain.TimeSpan

	for _, trade := range trades {
		s, ok := stats[trade.Trader]
		if !ok {
			s = &domain.TraderStats{User: trade.Trader}
			stats[trade.Trader] = s
		}

		tokens := trade.TokenAmount / tokenDecimals
		sol := trade.SolAmount / lamportsPerSol

		if trade.IsBuy {
			s.BuyTokenAmount += tokens
			s.BuySolAmount += sol
			s.Buys++
		} else {
			s.SellTokenAmount += tokens
			s.SellSolAmount += sol
			s.Sells++
		}

		span.Observe(trade.Timestamp)
	}
	return stats, span
}

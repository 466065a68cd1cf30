package reporting

import (
	"fmt"
	"sort"
	"strings"

	"pumpwatch/internal/domain"
)

// RenderCSV renders the per-trader rows of a report as a CSV string,
// one row per (mint, trader) pair, mints in sorted order.
func RenderCSV(report domain.Report) string {
	var sb strings.Builder

	sb.WriteString("mint,user,net_token_amount,sol_balance,total_value,stablecoin_value,holdings\n")

	for _, mint := range sortedMints(report) {
		for _, tr := range report[mint].Traders {
			sb.WriteString(fmt.Sprintf("%s,%s,%.6f,%.6f,%.6f,%.6f,%d\n",
				mint,
				tr.Trader,
				tr.NetTokenAmount,
				tr.SolBalance,
				tr.TotalValue,
				tr.StablecoinValue,
				len(tr.Accounts),
			))
		}
	}

	return sb.String()
}

func sortedMints(report domain.Report) []string {
	mints := make([]string, 0, len(report))
	for mint := range report {
		mints = append(mints, mint)
	}
	sort.Strings(mints)
	return mints
}

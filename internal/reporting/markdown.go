package reporting

import (
	"fmt"
	"strings"

	"pumpwatch/internal/domain"
)

// RenderMarkdown renders a report as a Markdown summary, one section per
// mint in sorted order.
func RenderMarkdown(report domain.Report) string {
	var sb strings.Builder

	sb.WriteString("# Launch Report\n\n")
	sb.WriteString(fmt.Sprintf("Mints: %d\n\n", len(report)))

	for _, mint := range sortedMints(report) {
		mr := report[mint]

		sb.WriteString(fmt.Sprintf("## %s\n\n", mint))
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Traders before filter | %d |\n", mr.TotalTradersBeforeFilter))
		sb.WriteString(fmt.Sprintf("| Tokens sold by exited traders | %.6f |\n", mr.TotalSoldByExited))
		sb.WriteString(fmt.Sprintf("| Time to bond | %s |\n", mr.TimeToBond))
		sb.WriteString(fmt.Sprintf("| Significant traders | %d |\n", len(mr.Traders)))
		sb.WriteString("\n")

		if len(mr.Traders) == 0 {
			continue
		}

		sb.WriteString("| Trader | Net Tokens | SOL | Total Value | Stablecoins | Holdings |\n")
		sb.WriteString("|--------|------------|-----|-------------|-------------|----------|\n")
		for _, tr := range mr.Traders {
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.4f | %.2f | %.2f | %d |\n",
				tr.Trader,
				tr.NetTokenAmount,
				tr.SolBalance,
				tr.TotalValue,
				tr.StablecoinValue,
				len(tr.Accounts),
			))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

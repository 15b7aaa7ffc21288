package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	snipers, realized, unrealized := r.Totals()

	// Header
	sb.WriteString("# Sniper Scan Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Tokens: %d | Snipers: %d | Realized: %.4f | Unrealized: %.4f\n\n",
		len(r.Tokens), snipers, realized, unrealized))

	// Token summary
	sb.WriteString("## Tokens\n\n")
	if len(r.Tokens) > 0 {
		sb.WriteString("| Token | Name | Launch Block | Swaps | Snipers | Realized PnL | Unrealized PnL | Tokens Held |\n")
		sb.WriteString("|-------|------|--------------|-------|---------|--------------|----------------|-------------|\n")
		for _, t := range r.Tokens {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %.4f | %.4f | %.4f |\n",
				t.Symbol, t.Name, t.LaunchBlock, t.SwapCount, t.SniperCount,
				t.TotalRealized, t.TotalUnrealized, t.TokensRemaining))
		}
	} else {
		sb.WriteString("No tokens scanned.\n")
	}
	sb.WriteString("\n")

	// Sniper detail
	sb.WriteString("## Snipers\n\n")
	if len(r.Snipers) > 0 {
		sb.WriteString("| Token | Wallet | Buys | Sells | Avg Buy | Avg Sell | Realized PnL | Unrealized PnL | Remaining |\n")
		sb.WriteString("|-------|--------|------|-------|---------|----------|--------------|----------------|-----------|\n")
		for _, s := range r.Snipers {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %d | %d | %.6f | %.6f | %.4f | %.4f | %.4f |\n",
				s.TokenSymbol, s.Wallet, s.BuyCount, s.SellCount,
				s.AvgBuyPrice, s.AvgSellPrice,
				s.RealizedPnL, s.UnrealizedPnL, s.TokensRemaining))
		}
	} else {
		sb.WriteString("No snipers detected.\n")
	}
	sb.WriteString("\n")

	// Errors are shown only when present
	if len(r.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			sb.WriteString(fmt.Sprintf("- %s\n", e))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

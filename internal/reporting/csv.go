package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{
	"token", "wallet", "realized_pnl", "unrealized_pnl", "tokens_remaining", "buy_count", "sell_count",
	"first_buy_time", "last_sell_time", "avg_buy_price", "avg_sell_price", "total_tax", "total_fees",
}

// RenderCSV renders sniper rows as CSV string. Empty times are empty cells.
// Amounts carry the four decimals the engine rounds to.
func RenderCSV(r *Report) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(csvHeader)
	for _, s := range r.Snipers {
		_ = w.Write([]string{
			s.TokenSymbol,
			s.Wallet,
			amount(s.RealizedPnL),
			amount(s.UnrealizedPnL),
			amount(s.TokensRemaining),
			strconv.Itoa(s.BuyCount),
			strconv.Itoa(s.SellCount),
			formatTime(s.FirstBuyTime),
			formatTime(s.LastSellTime),
			amount(s.AvgBuyPrice),
			amount(s.AvgSellPrice),
			amount(s.TotalTax),
			amount(s.TotalFees),
		})
	}
	w.Flush()

	return sb.String()
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

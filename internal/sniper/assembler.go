package sniper

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"genesis-sniper-lab/internal/domain"
)

// round rounds to the given decimal places, half away from zero.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// average returns sum/count, 0 when count is 0.
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func msToTime(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

// Assemble packages ledger output into SniperResults, rounding at the
// boundary. Results are ordered by wallet so repeated runs compare equal.
func Assemble(ledgers []LedgerResult, precision int32) []domain.SniperResult {
	results := make([]domain.SniperResult, 0, len(ledgers))
	for _, l := range ledgers {
		results = append(results, domain.SniperResult{
			Wallet:          l.Wallet,
			RealizedPnL:     round(l.RealizedPnL, precision),
			UnrealizedPnL:   round(l.UnrealizedPnL, precision),
			TokensRemaining: round(l.TokensRemaining, precision),
			BuyCount:        l.BuyCount,
			SellCount:       l.SellCount,
			FirstBuyTime:    msToTime(l.FirstBuyTime),
			LastSellTime:    msToTime(l.LastSellTime),
			AvgBuyPrice:     round(average(l.BuyPriceSum, l.BuyCount), precision),
			AvgSellPrice:    round(average(l.SellPriceSum, l.SellCount), precision),
			TotalTax:        round(l.TotalTax, precision),
			TotalFees:       round(l.TotalFees, precision),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Wallet < results[j].Wallet
	})
	return results
}

package normalization

import "genesis-sniper-lab/internal/domain"

// LatestPrice returns the price of the newest event for symbol.
// Events tagged with another token symbol are ignored. Ties on timestamp go
// to the higher block, then the later input position. Returns 0 for no events.
func LatestPrice(events []domain.SwapEvent, symbol string) float64 {
	var latest *domain.SwapEvent
	for i := range events {
		e := &events[i]
		if e.TokenSymbol != "" && symbol != "" && e.TokenSymbol != symbol {
			continue
		}
		if latest == nil || compareEvents(e, latest) > 0 {
			latest = e
		}
	}
	if latest == nil {
		return 0
	}
	return latest.Price
}

// ComputeStats summarizes a token's normalized history.
func ComputeStats(events []domain.SwapEvent) domain.TokenStats {
	traders := make(map[string]struct{})
	var stats domain.TokenStats
	for _, e := range events {
		stats.TotalSwaps++
		if e.Wallet != "" {
			traders[e.Wallet] = struct{}{}
		}
		switch e.Direction {
		case domain.DirectionBuy:
			stats.BuyVolume += e.AmountBeforeTax
		case domain.DirectionSell:
			stats.SellVolume += e.AmountBeforeTax
		}
	}
	stats.UniqueTraders = len(traders)
	return stats
}

package sniper

import (
	"sort"
	"time"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/normalization"
)

// ChunkLargeBuys returns the buys that belong to a same-wallet burst whose
// before-tax volume exceeds threshold. A burst starts at a buy and absorbs
// every later buy within window of that start (inclusive). Non-buy events are
// ignored. Output is deduplicated by transaction id, wallets in address order.
func ChunkLargeBuys(events []domain.SwapEvent, threshold float64, window time.Duration) []domain.SwapEvent {
	buys := make([]domain.SwapEvent, 0, len(events))
	for _, e := range events {
		if e.IsBuy() {
			buys = append(buys, e)
		}
	}

	groups := normalization.GroupByWallet(buys)
	wallets := make([]string, 0, len(groups))
	for w := range groups {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)

	windowMs := window.Milliseconds()
	var qualifying []domain.SwapEvent

	for _, wallet := range wallets {
		group := groups[wallet]
		normalization.SortEvents(group)

		var (
			chunk      []domain.SwapEvent
			chunkStart int64
			chunkSum   float64
		)
		flush := func() {
			if len(chunk) > 0 && chunkSum > threshold {
				qualifying = append(qualifying, chunk...)
			}
		}

		for _, e := range group {
			if len(chunk) > 0 && e.Timestamp-chunkStart <= windowMs {
				chunk = append(chunk, e)
				chunkSum += positive(e.AmountBeforeTax)
				continue
			}
			flush()
			chunk = []domain.SwapEvent{e}
			chunkStart = e.Timestamp
			chunkSum = positive(e.AmountBeforeTax)
		}
		flush()
	}

	return normalization.DedupByTxID(qualifying)
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

package sniper

import (
	"sort"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/normalization"
)

// FilterHighFee keeps buys whose fee is strictly above threshold.
func FilterHighFee(buys []domain.SwapEvent, threshold float64) []domain.SwapEvent {
	out := make([]domain.SwapEvent, 0, len(buys))
	for _, b := range buys {
		if b.Fee > threshold {
			out = append(out, b)
		}
	}
	return out
}

// FilterEarly keeps buys at or before launchBlock+graceBlocks.
func FilterEarly(buys []domain.SwapEvent, launchBlock, graceBlocks int64) []domain.SwapEvent {
	limit := launchBlock + graceBlocks
	out := make([]domain.SwapEvent, 0, len(buys))
	for _, b := range buys {
		if b.BlockNumber <= limit {
			out = append(out, b)
		}
	}
	return out
}

// HasQuickExit reports whether any sell lands in (buy, buy+windowMs].
func HasQuickExit(buys, sells []domain.SwapEvent, windowMs int64) bool {
	for _, b := range buys {
		for _, s := range sells {
			delta := s.Timestamp - b.Timestamp
			if delta > 0 && delta <= windowMs {
				return true
			}
		}
	}
	return false
}

// Classify narrows chunk-qualifying buys by fee and launch proximity, then
// correlates each surviving wallet with its full sell history. Returns the
// sniper wallets in address order. Events without a wallet are never
// attributed to anyone.
func Classify(chunked []domain.SwapEvent, sellsByWallet map[string][]domain.SwapEvent, launchBlock int64, cfg Config) []string {
	survivors := FilterEarly(FilterHighFee(chunked, cfg.FeeThreshold), launchBlock, cfg.LaunchGraceBlocks)
	byWallet := normalization.GroupByWallet(survivors)
	windowMs := cfg.QuickExitWindow.Milliseconds()

	snipers := make([]string, 0, len(byWallet))
	for wallet, buys := range byWallet {
		if wallet == "" {
			continue
		}
		sells := sellsByWallet[wallet]
		if len(sells) == 0 {
			continue
		}
		if HasQuickExit(buys, sells, windowMs) {
			snipers = append(snipers, wallet)
		}
	}
	sort.Strings(snipers)
	return snipers
}

package normalization

import (
	"sort"

	"genesis-sniper-lab/internal/domain"
)

// SortEvents orders events by (timestamp ASC, block_number ASC, seq ASC).
func SortEvents(events []domain.SwapEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return compareEvents(&events[i], &events[j]) < 0
	})
}

// compareEvents returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func compareEvents(a, b *domain.SwapEvent) int {
	if a.Timestamp != b.Timestamp {
		if a.Timestamp < b.Timestamp {
			return -1
		}
		return 1
	}
	if a.BlockNumber != b.BlockNumber {
		if a.BlockNumber < b.BlockNumber {
			return -1
		}
		return 1
	}
	if a.Seq != b.Seq {
		if a.Seq < b.Seq {
			return -1
		}
		return 1
	}
	return 0
}

// GroupByWallet groups events by wallet, preserving input order within a group.
func GroupByWallet(events []domain.SwapEvent) map[string][]domain.SwapEvent {
	groups := make(map[string][]domain.SwapEvent)
	for _, e := range events {
		groups[e.Wallet] = append(groups[e.Wallet], e)
	}
	return groups
}

// DedupByTxID keeps the first event per transaction id. Events without an id
// are always kept.
func DedupByTxID(events []domain.SwapEvent) []domain.SwapEvent {
	seen := make(map[string]struct{}, len(events))
	out := make([]domain.SwapEvent, 0, len(events))
	for _, e := range events {
		if e.TxID != "" {
			if _, dup := seen[e.TxID]; dup {
				continue
			}
			seen[e.TxID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}

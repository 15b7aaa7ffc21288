package storage

import (
	"strings"

	"genesis-sniper-lab/internal/domain"
	"genesis-sniper-lab/internal/idhash"
)

// NormalizeSymbol returns the canonical upper-case form of a token symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SwapKeys computes storage keys for a batch of raw records.
// Records sharing a tx hash are told apart by their occurrence index.
func SwapKeys(symbol string, records []domain.RawSwap) []string {
	keys := make([]string, len(records))
	occurrences := make(map[string]int, len(records))
	for i, r := range records {
		tx := r.TxHash()
		keys[i] = idhash.ComputeSwapID(symbol, tx, occurrences[tx])
		occurrences[tx]++
	}
	return keys
}

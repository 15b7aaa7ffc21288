package normalization

import (
	"regexp"
	"strings"

	"genesis-sniper-lab/internal/domain"
)

var markupPattern = regexp.MustCompile(`<.*?>`)

// NormalizeAddress returns the canonical form of a wallet address:
// markup stripped, trimmed, lower-cased.
func NormalizeAddress(addr string) string {
	addr = markupPattern.ReplaceAllString(addr, "")
	return strings.ToLower(strings.TrimSpace(addr))
}

// walletOf picks maker, falling back to from.
func walletOf(raw domain.RawSwap) string {
	if w := NormalizeAddress(String(raw, domain.RawKeyMaker)); w != "" {
		return w
	}
	return NormalizeAddress(String(raw, domain.RawKeyFrom))
}

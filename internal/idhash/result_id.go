package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeResultID computes a deterministic sniper result id using SHA256.
// Formula: SHA256(SYMBOL|wallet)
// Symbol is upper-cased and wallet lower-cased first, so ids match across
// ingestion paths. Returns hex-encoded hash (64 characters).
func ComputeResultID(symbol, wallet string) string {
	data := fmt.Sprintf("%s|%s",
		strings.ToUpper(symbol),
		strings.ToLower(wallet),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeSwapID computes a deterministic storage key for a raw swap record.
// Formula: SHA256(SYMBOL|tx_hash|index)
// index is the record's position in its source batch and keeps records
// without a tx hash distinct.
func ComputeSwapID(symbol, txHash string, index int) string {
	data := fmt.Sprintf("%s|%s|%d",
		strings.ToUpper(symbol),
		txHash,
		index,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

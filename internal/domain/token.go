package domain

import "time"

// Token is a catalog entry for a launched genesis token.
// Corresponds to tokens table in PostgreSQL.
type Token struct {
	Symbol       string    `json:"symbol"`                 // upper-case ticker, PK
	Name         string    `json:"name"`                   // display name
	Address      string    `json:"token"`                  // token contract address
	BlockNumber  int64     `json:"blockNumber"`            // token creation block
	GenesisBlock *int64    `json:"genesisBlock,omitempty"` // genesis (launch) block when known
	LaunchedAt   time.Time `json:"timestamp"`              // creation time
	TxHash       string    `json:"txHash"`                 // creation transaction
}

// LaunchBlock returns the genesis block, or the creation block when the
// genesis block is unknown.
func (t *Token) LaunchBlock() int64 {
	if t.GenesisBlock != nil && *t.GenesisBlock > 0 {
		return *t.GenesisBlock
	}
	return t.BlockNumber
}

// TokenStats summarizes a token's swap history.
type TokenStats struct {
	TotalSwaps    int     `json:"totalSwaps"`
	UniqueTraders int     `json:"uniqueTraders"`
	BuyVolume     float64 `json:"buyVolume"`  // sum of before-tax buy amounts
	SellVolume    float64 `json:"sellVolume"` // sum of before-tax sell amounts
}

package domain

// Direction is the side of a swap from the wallet's point of view.
type Direction string

// Direction constants
const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// SwapEvent is one normalized on-chain trade for a single token.
// Produced by the normalization adapter; read-only for every engine stage.
type SwapEvent struct {
	Wallet          string    // lowercase maker address
	Direction       Direction // buy | sell
	BlockNumber     int64     // execution order proxy
	Timestamp       int64     // resolved instant, Unix milliseconds (0 = unknown)
	AmountBeforeTax float64   // buys: tokens out of the pool gross; sells: tokens leaving the wallet
	AmountAfterTax  float64   // buys: tokens received; sells: tokens delivered to the pool
	Price           float64   // token price in USDC at event time
	Tax             float64   // transfer tax in token units
	Fee             float64   // network fee
	TxID            string    // transaction hash, dedup only
	TokenSymbol     string    // genesis_token_symbol tag when the record carries one
	Seq             int       // position in the input batch, final sort tie-breaker
}

// IsBuy reports whether the event is a buy.
func (e *SwapEvent) IsBuy() bool { return e.Direction == DirectionBuy }

// IsSell reports whether the event is a sell.
func (e *SwapEvent) IsSell() bool { return e.Direction == DirectionSell }

package domain

// RawSwap is a swap record exactly as persisted by the collector.
// Amount fields are keyed by token symbol ({SYMBOL}_OUT_BeforeTax, ...), so the
// record stays untyped until the normalization adapter maps it onto SwapEvent.
type RawSwap map[string]any

// Raw record keys shared by every token.
const (
	RawKeyMaker             = "maker"
	RawKeyFrom              = "from"
	RawKeySwapType          = "swapType"
	RawKeyBlockNumber       = "blockNumber"
	RawKeyTimestamp         = "timestamp"
	RawKeyTimestampReadable = "timestampReadable"
	RawKeyPrice             = "genesis_usdc_price"
	RawKeyTax               = "Tax_1pct"
	RawKeyFee               = "transactionFee"
	RawKeyTxHash            = "txHash"
	RawKeyTokenSymbol       = "genesis_token_symbol"
)

// TxHash returns the record's transaction hash or "".
func (r RawSwap) TxHash() string {
	if v, ok := r[RawKeyTxHash].(string); ok {
		return v
	}
	return ""
}

package normalization

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"

	"genesis-sniper-lab/internal/domain"
)

// Dynamic amount key suffixes. Full key is {SYMBOL}{suffix}.
const (
	suffixOutBeforeTax = "_OUT_BeforeTax"
	suffixOutAfterTax  = "_OUT_AfterTax"
	suffixInBeforeTax  = "_IN_BeforeTax"
	suffixInAfterTax   = "_IN_AfterTax"
)

// FieldMap names the per-token amount keys of a raw swap record.
type FieldMap struct {
	Symbol       string // upper-case token symbol
	OutBeforeTax string // buy, gross tokens out of the pool
	OutAfterTax  string // buy, tokens received by the wallet
	InBeforeTax  string // sell, tokens debited from the wallet
	InAfterTax   string // sell, tokens delivered to the pool
}

// NewFieldMap builds the key set for a token symbol.
func NewFieldMap(symbol string) FieldMap {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	return FieldMap{
		Symbol:       sym,
		OutBeforeTax: sym + suffixOutBeforeTax,
		OutAfterTax:  sym + suffixOutAfterTax,
		InBeforeTax:  sym + suffixInBeforeTax,
		InAfterTax:   sym + suffixInAfterTax,
	}
}

// Number reads a numeric field, returning 0 for missing, empty, non-numeric
// or non-finite values.
func Number(raw domain.RawSwap, key string) float64 {
	v, ok := raw[key]
	if !ok {
		return 0
	}
	return ToNumber(v)
}

// ToNumber coerces a loosely typed value to float64 with the same rules as Number.
func ToNumber(v any) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return 0
		}
		v = val
	case json.Number:
		v = val.String()
	case bool:
		// booleans are not quantities
		return 0
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// String reads a string field, returning "" when missing or not a string.
func String(raw domain.RawSwap, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return ""
		}
		return s
	}
}

// Package normalization maps raw swap records onto the fixed SwapEvent shape.
// It is the only place that knows about symbol-keyed amount fields.
package normalization

import (
	"strings"

	"genesis-sniper-lab/internal/domain"
)

// Normalize maps one raw record. Returns false for records that are neither
// a buy nor a sell.
func (m FieldMap) Normalize(raw domain.RawSwap, seq int) (domain.SwapEvent, bool) {
	var dir domain.Direction
	switch strings.ToLower(strings.TrimSpace(String(raw, domain.RawKeySwapType))) {
	case string(domain.DirectionBuy):
		dir = domain.DirectionBuy
	case string(domain.DirectionSell):
		dir = domain.DirectionSell
	default:
		return domain.SwapEvent{}, false
	}

	e := domain.SwapEvent{
		Wallet:      walletOf(raw),
		Direction:   dir,
		BlockNumber: int64(Number(raw, domain.RawKeyBlockNumber)),
		Timestamp:   ResolveTimestamp(raw),
		Price:       Number(raw, domain.RawKeyPrice),
		Tax:         Number(raw, domain.RawKeyTax),
		Fee:         Number(raw, domain.RawKeyFee),
		TxID:        String(raw, domain.RawKeyTxHash),
		TokenSymbol: strings.ToUpper(strings.TrimSpace(String(raw, domain.RawKeyTokenSymbol))),
		Seq:         seq,
	}

	if dir == domain.DirectionBuy {
		e.AmountBeforeTax = Number(raw, m.OutBeforeTax)
		e.AmountAfterTax = Number(raw, m.OutAfterTax)
	} else {
		e.AmountBeforeTax = Number(raw, m.InBeforeTax)
		e.AmountAfterTax = Number(raw, m.InAfterTax)
	}

	return e, true
}

// NormalizeAll maps a token's raw records in input order, dropping records
// without a direction. Seq is the record's index in records.
func NormalizeAll(records []domain.RawSwap, symbol string) []domain.SwapEvent {
	m := NewFieldMap(symbol)
	events := make([]domain.SwapEvent, 0, len(records))
	for i, raw := range records {
		if raw == nil {
			continue
		}
		if e, ok := m.Normalize(raw, i); ok {
			events = append(events, e)
		}
	}
	return events
}

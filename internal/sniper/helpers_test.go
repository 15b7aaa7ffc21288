package sniper

import (
	"math"
	"strconv"
	"time"

	"genesis-sniper-lab/internal/domain"
)

const (
	t0          = int64(1700000000000)
	launchBlock = int64(5000)
	sniperFee   = 0.00001
)

var seq int

func ms(d time.Duration) int64 { return d.Milliseconds() }

// Helper to create a buy event.
func makeBuy(wallet string, ts, block int64, before, after, price, fee float64) domain.SwapEvent {
	seq++
	return domain.SwapEvent{
		Wallet:          wallet,
		Direction:       domain.DirectionBuy,
		BlockNumber:     block,
		Timestamp:       ts,
		AmountBeforeTax: before,
		AmountAfterTax:  after,
		Price:           price,
		Fee:             fee,
		TxID:            txID(wallet, seq),
		Seq:             seq,
	}
}

// Helper to create a sell event.
func makeSell(wallet string, ts, block int64, before, after, price float64) domain.SwapEvent {
	seq++
	return domain.SwapEvent{
		Wallet:          wallet,
		Direction:       domain.DirectionSell,
		BlockNumber:     block,
		Timestamp:       ts,
		AmountBeforeTax: before,
		AmountAfterTax:  after,
		Price:           price,
		Fee:             sniperFee,
		TxID:            txID(wallet, seq),
		Seq:             seq,
	}
}

func txID(wallet string, n int) string {
	return wallet + "-" + strconv.Itoa(n)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

package sniper

import "genesis-sniper-lab/internal/domain"

// lotDustEpsilon is the remaining amount below which a lot counts as consumed.
const lotDustEpsilon = 1e-8

// BuyLot is an unconsumed portion of a buy, owned by one wallet's queue.
type BuyLot struct {
	AmountRemaining    float64 // after-tax tokens not yet sold
	CostBasisRemaining float64 // before-tax quantity attributable to AmountRemaining
	Price              float64 // buy execution price
}

// LedgerResult holds unrounded per-wallet ledger output.
type LedgerResult struct {
	Wallet          string
	RealizedPnL     float64
	UnrealizedPnL   float64
	TokensRemaining float64
	BuyCount        int
	SellCount       int
	BuyPriceSum     float64
	SellPriceSum    float64
	FirstBuyTime    int64 // Unix ms, 0 when unknown
	LastSellTime    int64 // Unix ms, 0 when unknown
	TotalTax        float64
	TotalFees       float64
}

// fifoQueue is an append-at-tail, consume-at-head lot queue.
type fifoQueue struct {
	lots []BuyLot
	head int
}

func (q *fifoQueue) push(l BuyLot) { q.lots = append(q.lots, l) }

func (q *fifoQueue) empty() bool { return q.head >= len(q.lots) }

func (q *fifoQueue) front() *BuyLot { return &q.lots[q.head] }

func (q *fifoQueue) pop() { q.head++ }

func (q *fifoQueue) remaining() float64 {
	var sum float64
	for _, l := range q.lots[q.head:] {
		sum += l.AmountRemaining
	}
	return sum
}

// ReplayWallet walks one wallet's full history in the given order (callers pass
// it sorted by time) and matches sells against buy lots first-in-first-out.
//
// Each matched slice of a sell realizes its share of the sell's proceeds
// (afterTax * price) minus the lot's proportional cost basis valued at the
// lot's price. Sell quantity beyond the queue is left unmatched.
func ReplayWallet(wallet string, events []domain.SwapEvent, latestPrice float64, basis SellMatchBasis) LedgerResult {
	res := LedgerResult{Wallet: wallet}
	var queue fifoQueue

	for _, e := range events {
		res.TotalTax += e.Tax
		res.TotalFees += e.Fee

		switch e.Direction {
		case domain.DirectionBuy:
			res.BuyCount++
			res.BuyPriceSum += e.Price
			if res.FirstBuyTime == 0 && e.Timestamp > 0 {
				res.FirstBuyTime = e.Timestamp
			}
			// zero-volume buys carry no inventory
			if e.AmountBeforeTax <= 0 || e.AmountAfterTax <= 0 {
				continue
			}
			queue.push(BuyLot{
				AmountRemaining:    e.AmountAfterTax,
				CostBasisRemaining: e.AmountBeforeTax,
				Price:              e.Price,
			})

		case domain.DirectionSell:
			res.SellCount++
			res.SellPriceSum += e.Price
			if e.Timestamp > 0 {
				res.LastSellTime = e.Timestamp
			}
			res.RealizedPnL += matchSell(&queue, e, basis)
		}
	}

	res.TokensRemaining = queue.remaining()
	res.UnrealizedPnL = res.TokensRemaining * latestPrice
	return res
}

// matchSell consumes lots for one sell and returns the realized PnL.
func matchSell(queue *fifoQueue, sell domain.SwapEvent, basis SellMatchBasis) float64 {
	qty := sell.AmountAfterTax
	if basis == MatchBeforeTax {
		qty = sell.AmountBeforeTax
	}
	if qty <= 0 {
		return 0
	}

	proceeds := sell.AmountAfterTax * sell.Price
	toMatch := qty
	var realized float64

	for toMatch > 0 && !queue.empty() {
		lot := queue.front()
		if lot.AmountRemaining <= lotDustEpsilon {
			queue.pop()
			continue
		}

		matched := min(toMatch, lot.AmountRemaining)
		consumed := matched / lot.AmountRemaining
		cost := lot.CostBasisRemaining * consumed

		realized += proceeds*(matched/qty) - cost*lot.Price

		lot.AmountRemaining -= matched
		lot.CostBasisRemaining -= cost
		toMatch -= matched

		if lot.AmountRemaining <= lotDustEpsilon {
			queue.pop()
		}
	}

	return realized
}

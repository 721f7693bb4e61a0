package orderbook

import (
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

// matchOrders drains the crossing region of the book. While the best bid and
// best ask overlap, the head orders of both levels trade at min(remaining)
// FIFO; filled heads leave both indexes, and emptied levels are erased after
// the inner loop so level iteration never races its own removal.
func (b *Book) matchOrders() orderbookv1.Trades {
	trades := make(orderbookv1.Trades, 0, len(b.orders))

	for {
		bestBid := b.bids.best()
		bestAsk := b.asks.best()
		if bestBid == nil || bestAsk == nil {
			break
		}
		if bestBid.price < bestAsk.price {
			break
		}

		for bestBid.orders.Len() > 0 && bestAsk.orders.Len() > 0 {
			bid := bestBid.orders.Front().Value.(*orderbookv1.Order)
			ask := bestAsk.orders.Front().Value.(*orderbookv1.Order)

			quantity := min(bid.RemainingQuantity, ask.RemainingQuantity)

			// Each side records its own resting price, so an aggressive buy
			// at 105 against an ask at 100 books 105 for the buyer and 100
			// for the seller.
			trades = append(trades, orderbookv1.Trade{
				Bid: orderbookv1.TradeInfo{OrderID: bid.ID, Price: bid.Price, Quantity: quantity},
				Ask: orderbookv1.TradeInfo{OrderID: ask.ID, Price: ask.Price, Quantity: quantity},
			})

			_ = bid.Fill(quantity)
			_ = ask.Fill(quantity)

			if bid.IsFilled() {
				bestBid.orders.Remove(bestBid.orders.Front())
				delete(b.orders, bid.ID)
			}
			if ask.IsFilled() {
				bestAsk.orders.Remove(bestAsk.orders.Front())
				delete(b.orders, ask.ID)
			}
		}

		if bestBid.orders.Len() == 0 {
			b.bids.remove(bestBid.price)
		}
		if bestAsk.orders.Len() == 0 {
			b.asks.remove(bestAsk.price)
		}
	}

	return trades
}

// cancelResidualIOC removes an immediate-or-cancel order that still rests
// after the match loop. The order is located through the order index, so the
// sweep stays correct no matter where the match loop left it.
func (b *Book) cancelResidualIOC(order *orderbookv1.Order) {
	if order.Type != orderbookv1.ImmediateOrCancel || order.IsFilled() {
		return
	}
	if _, ok := b.orders[order.ID]; ok {
		b.CancelOrder(order.ID)
	}
}

// fokMatch is one step of a fill-or-kill execution plan.
type fokMatch struct {
	order    *orderbookv1.Order
	quantity orderbookv1.Quantity
}

// collectFillOrKillMatches walks the opposite side in best-price order
// without touching the book, accumulating the execution plan. It returns the
// plan and the quantity it could not satisfy.
func (b *Book) collectFillOrKillMatches(order *orderbookv1.Order) ([]fokMatch, orderbookv1.Quantity) {
	remaining := order.RemainingQuantity
	var plan []fokMatch

	b.sideFor(order.Side.Opposite()).eachBestFirst(func(level *priceLevel) bool {
		if order.Side == orderbookv1.SideBuy && level.price > order.Price {
			return false
		}
		if order.Side == orderbookv1.SideSell && level.price < order.Price {
			return false
		}

		for elem := level.orders.Front(); elem != nil; elem = elem.Next() {
			resting := elem.Value.(*orderbookv1.Order)
			quantity := min(remaining, resting.RemainingQuantity)
			plan = append(plan, fokMatch{order: resting, quantity: quantity})
			remaining -= quantity
			if remaining == 0 {
				return false
			}
		}
		return true
	})

	return plan, remaining
}

// matchFillOrKill executes a fill-or-kill order in two phases: a read-only
// scan, then execution only if the full quantity is available. The incoming
// order never rests, and an unfillable order leaves the book untouched.
func (b *Book) matchFillOrKill(order *orderbookv1.Order) orderbookv1.Trades {
	plan, remaining := b.collectFillOrKillMatches(order)
	if remaining > 0 {
		return nil
	}

	trades := make(orderbookv1.Trades, 0, len(plan))
	for _, match := range plan {
		_ = order.Fill(match.quantity)
		_ = match.order.Fill(match.quantity)

		if order.Side == orderbookv1.SideBuy {
			trades = append(trades, orderbookv1.Trade{
				Bid: orderbookv1.TradeInfo{OrderID: order.ID, Price: order.Price, Quantity: match.quantity},
				Ask: orderbookv1.TradeInfo{OrderID: match.order.ID, Price: match.order.Price, Quantity: match.quantity},
			})
		} else {
			trades = append(trades, orderbookv1.Trade{
				Bid: orderbookv1.TradeInfo{OrderID: match.order.ID, Price: match.order.Price, Quantity: match.quantity},
				Ask: orderbookv1.TradeInfo{OrderID: order.ID, Price: order.Price, Quantity: match.quantity},
			})
		}

		if match.order.IsFilled() {
			b.CancelOrder(match.order.ID)
		}
	}

	return trades
}

package orderbook

import (
	"fmt"
	"time"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

// syntheticIDBase is where snapshot-synthesized order ids start. Feed order
// ids live far below this range, so synthetic levels never collide with
// caller-supplied orders added on top of a snapshot.
const syntheticIDBase orderbookv1.OrderID = 1_000_000

// ProcessMarketData applies one market data event to the book. It returns
// false and bumps the error counter when the event cannot be applied; the
// per-type counters and latency metrics are updated only on success.
func (b *Book) ProcessMarketData(event marketdatav1.Event) bool {
	start := time.Now()

	if err := b.applyEvent(event); err != nil {
		b.stats.Errors++
		return false
	}

	b.stats.Observe(time.Since(start))
	return true
}

// ProcessMarketDataBatch applies events in order and returns how many
// succeeded.
func (b *Book) ProcessMarketDataBatch(events []marketdatav1.Event) int {
	succeeded := 0
	for _, event := range events {
		if b.ProcessMarketData(event) {
			succeeded++
		}
	}
	return succeeded
}

func (b *Book) applyEvent(event marketdatav1.Event) error {
	switch ev := event.(type) {
	case marketdatav1.NewOrderEvent:
		b.processNewOrder(ev)
	case marketdatav1.CancelEvent:
		b.processCancel(ev)
	case marketdatav1.ModifyEvent:
		b.processModify(ev)
	case marketdatav1.TradeEvent:
		// Informational only: never reconciled against book state.
		b.stats.Trades++
	case marketdatav1.SnapshotEvent:
		b.processSnapshot(ev)
	case nil:
		return fmt.Errorf("%w: nil event", marketdatav1.ErrUnknownEventType)
	default:
		return fmt.Errorf("%w: %T", marketdatav1.ErrUnknownEventType, event)
	}
	return nil
}

func (b *Book) processNewOrder(ev marketdatav1.NewOrderEvent) {
	order := orderbookv1.NewOrder(ev.OrderType, ev.OrderID, ev.Side, ev.Price, ev.Quantity)
	trades := b.AddOrder(order)

	b.stats.NewOrders++
	b.stats.Trades += uint64(len(trades))
	b.emitTrades(trades)
}

func (b *Book) processCancel(ev marketdatav1.CancelEvent) {
	b.CancelOrder(ev.OrderID)
	b.stats.Cancellations++
}

func (b *Book) processModify(ev marketdatav1.ModifyEvent) {
	trades := b.ModifyOrder(orderbookv1.OrderModify{
		OrderID:  ev.OrderID,
		Side:     ev.Side,
		Price:    ev.NewPrice,
		Quantity: ev.NewQuantity,
	})
	b.stats.Modifications++
	b.emitTrades(trades)
}

// processSnapshot rebuilds the whole book from aggregated levels. The three
// indexes are cleared first, then one good-till-cancel order is synthesized
// per non-empty level with ids from the reserved synthetic range.
func (b *Book) processSnapshot(ev marketdatav1.SnapshotEvent) {
	b.bids = newSideIndex(orderbookv1.SideBuy)
	b.asks = newSideIndex(orderbookv1.SideSell)
	b.orders = make(map[orderbookv1.OrderID]*orderEntry, len(ev.Bids)+len(ev.Asks))

	syntheticID := syntheticIDBase

	for _, level := range ev.Bids {
		if level.Quantity == 0 {
			continue
		}
		b.insert(orderbookv1.NewOrder(orderbookv1.GoodTillCancel, syntheticID, orderbookv1.SideBuy, level.Price, level.Quantity))
		syntheticID++
	}
	for _, level := range ev.Asks {
		if level.Quantity == 0 {
			continue
		}
		b.insert(orderbookv1.NewOrder(orderbookv1.GoodTillCancel, syntheticID, orderbookv1.SideSell, level.Price, level.Quantity))
		syntheticID++
	}

	// Gap detection is report-only: the engine never requests retransmission.
	if b.initialized && ev.SequenceNumber > b.lastSequenceNumber+1 {
		b.stats.SequenceGaps++
	}

	b.initialized = true
	b.lastSequenceNumber = ev.SequenceNumber
	b.stats.Snapshots++
}

func (b *Book) emitTrades(trades orderbookv1.Trades) {
	if b.tradeHandler != nil && len(trades) > 0 {
		b.tradeHandler(trades)
	}
}

package orderbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

func newOrderEvent(id orderbookv1.OrderID, side orderbookv1.Side, price orderbookv1.Price, quantity orderbookv1.Quantity) marketdatav1.NewOrderEvent {
	return marketdatav1.NewOrderEvent{
		OrderID:   id,
		Side:      side,
		Price:     price,
		Quantity:  quantity,
		OrderType: orderbookv1.GoodTillCancel,
		Timestamp: time.Now(),
	}
}

func snapshotEvent(sequence uint64) marketdatav1.SnapshotEvent {
	return marketdatav1.SnapshotEvent{
		Bids: []marketdatav1.SnapshotLevel{
			{Price: 100, Quantity: 50, OrderCount: 3},
			{Price: 99, Quantity: 30, OrderCount: 1},
		},
		Asks: []marketdatav1.SnapshotLevel{
			{Price: 101, Quantity: 40, OrderCount: 2},
			{Price: 102, Quantity: 20, OrderCount: 1},
		},
		Timestamp:      time.Now(),
		SequenceNumber: sequence,
	}
}

// Test 1: New order events mutate the book and count trades
func TestBook_ProcessNewOrderEvent(t *testing.T) {
	book := NewBook()

	ok := book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideSell, 100, 10))
	require.True(t, ok)
	assert.Equal(t, 1, book.Size())

	ok = book.ProcessMarketData(newOrderEvent(2, orderbookv1.SideBuy, 100, 10))
	require.True(t, ok)
	assert.Equal(t, 0, book.Size())

	stats := book.Stats()
	assert.Equal(t, uint64(2), stats.MessagesProcessed)
	assert.Equal(t, uint64(2), stats.NewOrders)
	assert.Equal(t, uint64(1), stats.Trades)
	assert.Equal(t, uint64(0), stats.Errors)
}

// Test 2: Cancel events count whether or not the id existed
func TestBook_ProcessCancelEvent(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 100, 10))

	require.True(t, book.ProcessMarketData(marketdatav1.CancelEvent{OrderID: 1, Timestamp: time.Now()}))
	assert.Equal(t, 0, book.Size())

	require.True(t, book.ProcessMarketData(marketdatav1.CancelEvent{OrderID: 42, Timestamp: time.Now()}))
	assert.Equal(t, uint64(2), book.Stats().Cancellations)
}

// Test 3: Modify events are cancel-and-replace
func TestBook_ProcessModifyEvent(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 95, 10))
	book.ProcessMarketData(newOrderEvent(2, orderbookv1.SideSell, 100, 10))

	ok := book.ProcessMarketData(marketdatav1.ModifyEvent{
		OrderID:     1,
		Side:        orderbookv1.SideBuy,
		NewPrice:    100,
		NewQuantity: 10,
		Timestamp:   time.Now(),
	})

	require.True(t, ok)
	assert.Equal(t, 0, book.Size())
	assert.Equal(t, uint64(1), book.Stats().Modifications)
}

// Test 4: Trade events are informational only
func TestBook_ProcessTradeEvent(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 100, 10))
	before := book.Depth()

	ok := book.ProcessMarketData(marketdatav1.TradeEvent{
		BuyOrderID:  7,
		SellOrderID: 8,
		Price:       100,
		Quantity:    5,
		Timestamp:   time.Now(),
	})

	require.True(t, ok)
	assert.Equal(t, before, book.Depth())
	assert.Equal(t, uint64(1), book.Stats().Trades)
	assert.Equal(t, 1, book.Size())
}

// Test 5: Snapshots rebuild the whole book
func TestBook_ProcessSnapshot(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 50, 10))

	ok := book.ProcessMarketData(snapshotEvent(1000))
	require.True(t, ok)

	assert.True(t, book.IsInitialized())
	assert.Equal(t, uint64(1000), book.LastSequenceNumber())
	assert.Equal(t, 4, book.Size()) // one synthetic order per level

	depth := book.Depth()
	require.Len(t, depth.Bids, 2)
	require.Len(t, depth.Asks, 2)
	assert.Equal(t, orderbookv1.LevelInfo{Price: 100, Quantity: 50}, depth.Bids[0])
	assert.Equal(t, orderbookv1.LevelInfo{Price: 99, Quantity: 30}, depth.Bids[1])
	assert.Equal(t, orderbookv1.LevelInfo{Price: 101, Quantity: 40}, depth.Asks[0])
	assert.Equal(t, orderbookv1.LevelInfo{Price: 102, Quantity: 20}, depth.Asks[1])

	assert.Equal(t, uint64(1), book.Stats().Snapshots)
}

// Test 6: Zero-quantity snapshot levels are skipped
func TestBook_ProcessSnapshotSkipsEmptyLevels(t *testing.T) {
	book := NewBook()

	ok := book.ProcessMarketData(marketdatav1.SnapshotEvent{
		Bids:           []marketdatav1.SnapshotLevel{{Price: 100, Quantity: 0}, {Price: 99, Quantity: 10}},
		Asks:           []marketdatav1.SnapshotLevel{{Price: 101, Quantity: 0}},
		Timestamp:      time.Now(),
		SequenceNumber: 1,
	})

	require.True(t, ok)
	assert.Equal(t, 1, book.Size())
	require.Len(t, book.Depth().Bids, 1)
	assert.Empty(t, book.Depth().Asks)
}

// Test 7: Synthetic snapshot ids do not collide with feed order ids
func TestBook_SnapshotSyntheticIDs(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(snapshotEvent(1))

	// A feed order with a low id lands on top of the rebuilt book.
	ok := book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 99, 5))
	require.True(t, ok)
	assert.Equal(t, 5, book.Size())

	depth := book.Depth()
	assert.Equal(t, orderbookv1.Quantity(35), depth.Bids[1].Quantity)
}

// Test 8: Sequence gaps are counted, consecutive snapshots are not
func TestBook_SequenceGapDetection(t *testing.T) {
	book := NewBook()

	book.ProcessMarketData(snapshotEvent(100))
	assert.Equal(t, uint64(0), book.Stats().SequenceGaps)

	book.ProcessMarketData(snapshotEvent(101))
	assert.Equal(t, uint64(0), book.Stats().SequenceGaps)

	book.ProcessMarketData(snapshotEvent(105))
	assert.Equal(t, uint64(1), book.Stats().SequenceGaps)
	assert.Equal(t, uint64(105), book.LastSequenceNumber())
}

// Test 9: Bad events return false and count as errors
func TestBook_ProcessMarketDataErrors(t *testing.T) {
	book := NewBook()

	assert.False(t, book.ProcessMarketData(nil))
	assert.Equal(t, uint64(1), book.Stats().Errors)
	assert.Equal(t, uint64(0), book.Stats().MessagesProcessed)
}

// Test 10: Batches apply in order and report the success count
func TestBook_ProcessMarketDataBatch(t *testing.T) {
	book := NewBook()

	events := []marketdatav1.Event{
		newOrderEvent(1, orderbookv1.SideSell, 100, 10),
		nil,
		newOrderEvent(2, orderbookv1.SideBuy, 100, 10),
	}

	succeeded := book.ProcessMarketDataBatch(events)

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 0, book.Size())
	assert.Equal(t, uint64(1), book.Stats().Errors)
}

// Test 11: The trade handler observes trades produced by ingestion
func TestBook_TradeHandler(t *testing.T) {
	book := NewBook()

	var seen orderbookv1.Trades
	book.SetTradeHandler(func(trades orderbookv1.Trades) {
		seen = append(seen, trades...)
	})

	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideSell, 100, 10))
	assert.Empty(t, seen)

	book.ProcessMarketData(newOrderEvent(2, orderbookv1.SideBuy, 100, 10))
	require.Len(t, seen, 1)
	assert.Equal(t, orderbookv1.OrderID(2), seen[0].Bid.OrderID)
	assert.Equal(t, orderbookv1.OrderID(1), seen[0].Ask.OrderID)
}

// Test 12: Latency metrics accumulate on success
func TestBook_StatsLatency(t *testing.T) {
	book := NewBook()

	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 100, 10))
	book.ProcessMarketData(newOrderEvent(2, orderbookv1.SideBuy, 99, 10))

	stats := book.Stats()
	assert.Equal(t, uint64(2), stats.MessagesProcessed)
	assert.GreaterOrEqual(t, stats.MaxLatency, stats.MinLatency)
	assert.GreaterOrEqual(t, stats.TotalProcessingTime, stats.MaxLatency)
}

// Test 13: ResetStats clears counters but not book state
func TestBook_ResetStats(t *testing.T) {
	book := NewBook()
	book.ProcessMarketData(newOrderEvent(1, orderbookv1.SideBuy, 100, 10))
	book.ProcessMarketData(snapshotEvent(10))

	book.ResetStats()

	stats := book.Stats()
	assert.Equal(t, uint64(0), stats.MessagesProcessed)
	assert.Equal(t, uint64(0), stats.Snapshots)
	assert.True(t, book.IsInitialized())
	assert.Equal(t, uint64(10), book.LastSequenceNumber())
	assert.Equal(t, 4, book.Size())
}

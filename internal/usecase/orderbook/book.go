package orderbook

import (
	"container/list"

	"github.com/google/btree"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

const (
	priceLevelsBTreeDegree = 32

	// defaultResetHour/Minute expire good-for-day orders at 15:59 local time
	// unless the caller reconfigures the clock.
	defaultResetHour   = 15
	defaultResetMinute = 59
)

// priceLevel is the FIFO queue of orders resting at one price. The list
// elements are the stable position handles that make cancel O(1).
type priceLevel struct {
	price  orderbookv1.Price
	orders *list.List // of *orderbookv1.Order
}

func newPriceLevel(price orderbookv1.Price) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

// Less orders levels by price ascending inside the btree.
func (l *priceLevel) Less(than btree.Item) bool {
	return l.price < than.(*priceLevel).price
}

func (l *priceLevel) totalQuantity() orderbookv1.Quantity {
	var total orderbookv1.Quantity
	for elem := l.orders.Front(); elem != nil; elem = elem.Next() {
		total += elem.Value.(*orderbookv1.Order).RemainingQuantity
	}
	return total
}

// orderEntry links an order to its price level and its exact position inside
// that level's queue. Every insertion writes the entry, every removal path
// deletes it: the two indexes must never disagree.
type orderEntry struct {
	order *orderbookv1.Order
	level *priceLevel
	elem  *list.Element
}

// sideIndex is one side of the book: price levels in a btree keyed by price.
type sideIndex struct {
	side   orderbookv1.Side
	levels *btree.BTree
}

func newSideIndex(side orderbookv1.Side) *sideIndex {
	return &sideIndex{side: side, levels: btree.New(priceLevelsBTreeDegree)}
}

func (s *sideIndex) empty() bool {
	return s.levels.Len() == 0
}

func (s *sideIndex) get(price orderbookv1.Price) *priceLevel {
	item := s.levels.Get(&priceLevel{price: price})
	if item == nil {
		return nil
	}
	return item.(*priceLevel)
}

func (s *sideIndex) getOrCreate(price orderbookv1.Price) *priceLevel {
	if level := s.get(price); level != nil {
		return level
	}
	level := newPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

func (s *sideIndex) remove(price orderbookv1.Price) {
	s.levels.Delete(&priceLevel{price: price})
}

// best returns the most aggressive level: highest price for bids, lowest for
// asks. Nil when the side is empty.
func (s *sideIndex) best() *priceLevel {
	var item btree.Item
	if s.side == orderbookv1.SideBuy {
		item = s.levels.Max()
	} else {
		item = s.levels.Min()
	}
	if item == nil {
		return nil
	}
	return item.(*priceLevel)
}

// eachBestFirst visits levels from the most aggressive price outward until fn
// returns false.
func (s *sideIndex) eachBestFirst(fn func(*priceLevel) bool) {
	visit := func(item btree.Item) bool {
		return fn(item.(*priceLevel))
	}
	if s.side == orderbookv1.SideBuy {
		s.levels.Descend(visit)
	} else {
		s.levels.Ascend(visit)
	}
}

// TradeHandler observes the trades produced while applying market data
// events. It runs synchronously on the book's owner goroutine.
type TradeHandler func(orderbookv1.Trades)

// Book is the central limit order book. It owns every resting order and both
// price indexes, matches under price-time priority, and ingests market data
// events.
//
// The book is a single-owner component: it performs no locking, and
// concurrent use from multiple goroutines requires external serialization.
type Book struct {
	bids   *sideIndex
	asks   *sideIndex
	orders map[orderbookv1.OrderID]*orderEntry

	clock *orderbookv1.Clock
	rules orderbookv1.ExchangeRules
	stats marketdatav1.Stats

	lastSequenceNumber uint64
	initialized        bool

	tradeHandler TradeHandler
}

// NewBook creates an empty book with default exchange rules and the default
// day-reset clock.
func NewBook() *Book {
	clock, _ := orderbookv1.NewClock(defaultResetHour, defaultResetMinute)
	return &Book{
		bids:   newSideIndex(orderbookv1.SideBuy),
		asks:   newSideIndex(orderbookv1.SideSell),
		orders: make(map[orderbookv1.OrderID]*orderEntry),
		clock:  clock,
		rules:  orderbookv1.DefaultExchangeRules(),
		stats:  marketdatav1.NewStats(),
	}
}

// SetExchangeRules replaces the validation rules.
func (b *Book) SetExchangeRules(rules orderbookv1.ExchangeRules) {
	b.rules = rules
}

// ExchangeRules returns the active validation rules.
func (b *Book) ExchangeRules() orderbookv1.ExchangeRules {
	return b.rules
}

// SetDayResetTime reconfigures when good-for-day orders expire.
func (b *Book) SetDayResetTime(hour, minute int) error {
	return b.clock.SetResetTime(hour, minute)
}

// SetTimeSource replaces the clock's time source, preserving the configured
// reset time. Intended for tests and replay drivers.
func (b *Book) SetTimeSource(source orderbookv1.TimeSource) error {
	clock, err := orderbookv1.NewClockWithSource(b.clock.ResetHour(), b.clock.ResetMinute(), source)
	if err != nil {
		return err
	}
	b.clock = clock
	return nil
}

// SetTradeHandler registers an observer for trades produced by market data
// ingestion. Passing nil removes the handler.
func (b *Book) SetTradeHandler(handler TradeHandler) {
	b.tradeHandler = handler
}

// Size returns the number of resting orders.
func (b *Book) Size() int {
	return len(b.orders)
}

// BidLevels returns the number of distinct bid price levels.
func (b *Book) BidLevels() int {
	return b.bids.levels.Len()
}

// AskLevels returns the number of distinct ask price levels.
func (b *Book) AskLevels() int {
	return b.asks.levels.Len()
}

// Depth aggregates both sides by price level: bids highest price first, asks
// lowest price first.
func (b *Book) Depth() orderbookv1.Depth {
	depth := orderbookv1.Depth{
		Bids: make(orderbookv1.LevelInfos, 0, b.bids.levels.Len()),
		Asks: make(orderbookv1.LevelInfos, 0, b.asks.levels.Len()),
	}
	b.bids.eachBestFirst(func(level *priceLevel) bool {
		depth.Bids = append(depth.Bids, orderbookv1.LevelInfo{Price: level.price, Quantity: level.totalQuantity()})
		return true
	})
	b.asks.eachBestFirst(func(level *priceLevel) bool {
		depth.Asks = append(depth.Asks, orderbookv1.LevelInfo{Price: level.price, Quantity: level.totalQuantity()})
		return true
	})
	return depth
}

// AddOrder validates the order, matches it against the opposite side, and
// rests any residual according to the order's type. It returns the trades the
// order produced; an empty result means the order was rejected, could not
// match (IOC/FOK), or rested without crossing.
func (b *Book) AddOrder(order *orderbookv1.Order) orderbookv1.Trades {
	if order == nil {
		return nil
	}

	b.checkAndResetDay()

	// Market orders become aggressive limit orders, or die on an empty
	// opposite side.
	if order.Type == orderbookv1.Market {
		switch {
		case order.Side == orderbookv1.SideBuy && !b.asks.empty():
			_ = order.ToGoodTillCancel(orderbookv1.PriceMax)
		case order.Side == orderbookv1.SideSell && !b.bids.empty():
			_ = order.ToGoodTillCancel(orderbookv1.PriceMin)
		default:
			return nil
		}
	}

	if validation := b.validateOrder(order); !validation.Valid {
		return nil
	}

	if order.Type == orderbookv1.ImmediateOrCancel && !b.canMatch(order.Side, order.Price) {
		return nil
	}

	if order.Type == orderbookv1.FillOrKill {
		return b.matchFillOrKill(order)
	}

	b.insert(order)
	trades := b.matchOrders()
	b.cancelResidualIOC(order)

	return trades
}

// CancelOrder removes a resting order. Unknown ids are a no-op.
func (b *Book) CancelOrder(id orderbookv1.OrderID) {
	entry, ok := b.orders[id]
	if !ok {
		return
	}

	delete(b.orders, id)
	entry.level.orders.Remove(entry.elem)
	if entry.level.orders.Len() == 0 {
		b.sideFor(entry.order.Side).remove(entry.level.price)
	}
}

// ModifyOrder cancels the existing order and re-adds it with the new price
// and quantity, preserving the original order type. The replacement joins the
// tail of its new price level.
func (b *Book) ModifyOrder(modify orderbookv1.OrderModify) orderbookv1.Trades {
	b.checkAndResetDay()

	entry, ok := b.orders[modify.OrderID]
	if !ok {
		return nil
	}

	orderType := entry.order.Type
	b.CancelOrder(modify.OrderID)
	return b.AddOrder(modify.ToOrder(orderType))
}

// IsInitialized reports whether a snapshot has been applied.
func (b *Book) IsInitialized() bool {
	return b.initialized
}

// LastSequenceNumber returns the sequence number of the last snapshot.
func (b *Book) LastSequenceNumber() uint64 {
	return b.lastSequenceNumber
}

// Stats returns a copy of the market data processing statistics.
func (b *Book) Stats() marketdatav1.Stats {
	return b.stats
}

// ResetStats clears the market data processing statistics.
func (b *Book) ResetStats() {
	b.stats.Reset()
}

func (b *Book) sideFor(side orderbookv1.Side) *sideIndex {
	if side == orderbookv1.SideBuy {
		return b.bids
	}
	return b.asks
}

// insert appends the order to its price level and records the position handle
// in the order index.
func (b *Book) insert(order *orderbookv1.Order) {
	level := b.sideFor(order.Side).getOrCreate(order.Price)
	elem := level.orders.PushBack(order)
	b.orders[order.ID] = &orderEntry{order: order, level: level, elem: elem}
}

func (b *Book) validateOrder(order *orderbookv1.Order) orderbookv1.OrderValidation {
	if _, exists := b.orders[order.ID]; exists {
		return orderbookv1.Reject(orderbookv1.RejectDuplicateOrderID)
	}

	// Converted market orders carry an extreme price on purpose; the tick and
	// notional checks do not apply to them.
	converted := order.Price == orderbookv1.PriceMax || order.Price == orderbookv1.PriceMin

	if !converted && !b.rules.IsValidPrice(order.Price) {
		return orderbookv1.Reject(orderbookv1.RejectInvalidPrice)
	}

	if !b.rules.IsValidQuantity(order.RemainingQuantity) {
		switch {
		case order.RemainingQuantity < b.rules.MinQuantity:
			return orderbookv1.Reject(orderbookv1.RejectBelowMinQuantity)
		case order.RemainingQuantity > b.rules.MaxQuantity:
			return orderbookv1.Reject(orderbookv1.RejectAboveMaxQuantity)
		default:
			return orderbookv1.Reject(orderbookv1.RejectInvalidQuantity)
		}
	}

	if !converted && !b.rules.IsValidNotional(order.Price, order.RemainingQuantity) {
		return orderbookv1.Reject(orderbookv1.RejectBelowMinNotional)
	}

	return orderbookv1.Accept()
}

// canMatch reports whether an order at this price would cross the best level
// of the opposite side.
func (b *Book) canMatch(side orderbookv1.Side, price orderbookv1.Price) bool {
	if side == orderbookv1.SideBuy {
		best := b.asks.best()
		return best != nil && price >= best.price
	}
	best := b.bids.best()
	return best != nil && price <= best.price
}

func (b *Book) checkAndResetDay() {
	if !b.clock.ShouldResetDay() {
		return
	}
	b.cancelGoodForDayOrders()
	b.clock.MarkResetOccurred()
}

// cancelGoodForDayOrders purges every good-for-day order. The ids are
// materialized first so the order index is not mutated while being iterated.
func (b *Book) cancelGoodForDayOrders() {
	ids := make([]orderbookv1.OrderID, 0, len(b.orders))
	for id, entry := range b.orders {
		if entry.order.Type == orderbookv1.GoodForDay {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		b.CancelOrder(id)
	}
}

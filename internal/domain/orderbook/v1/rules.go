package orderbookv1

// ExchangeRules are the microstructure constraints every incoming order is
// checked against: tick size, lot size, quantity bounds and notional floor.
type ExchangeRules struct {
	TickSize    Price    // minimum price increment
	LotSize     Quantity // minimum quantity increment
	MinQuantity Quantity // smallest acceptable order size
	MaxQuantity Quantity // largest acceptable order size
	MinNotional int64    // minimum order value (price * quantity)
}

// DefaultExchangeRules returns the permissive defaults: one-tick prices,
// one-lot quantities up to a million units, no notional floor.
func DefaultExchangeRules() ExchangeRules {
	return ExchangeRules{
		TickSize:    1,
		LotSize:     1,
		MinQuantity: 1,
		MaxQuantity: 1_000_000,
		MinNotional: 0,
	}
}

// IsValidPrice reports whether the price is positive and on a tick boundary.
func (r ExchangeRules) IsValidPrice(price Price) bool {
	if price <= 0 {
		return false
	}
	return price%r.TickSize == 0
}

// IsValidQuantity reports whether the quantity is within bounds and on a lot
// boundary.
func (r ExchangeRules) IsValidQuantity(quantity Quantity) bool {
	if quantity < r.MinQuantity || quantity > r.MaxQuantity {
		return false
	}
	return quantity%r.LotSize == 0
}

// IsValidNotional reports whether price*quantity meets the notional floor.
// The product is computed in 64 bits so 32-bit operands cannot overflow.
func (r ExchangeRules) IsValidNotional(price Price, quantity Quantity) bool {
	notional := int64(price) * int64(quantity)
	return notional >= r.MinNotional
}

// IsValidOrder combines the price, quantity and notional checks.
func (r ExchangeRules) IsValidOrder(price Price, quantity Quantity) bool {
	return r.IsValidPrice(price) &&
		r.IsValidQuantity(quantity) &&
		r.IsValidNotional(price, quantity)
}

// RoundToTick rounds a price down to the nearest tick boundary.
func (r ExchangeRules) RoundToTick(price Price) Price {
	if r.TickSize <= 1 {
		return price
	}
	return (price / r.TickSize) * r.TickSize
}

// RoundToLot rounds a quantity down to the nearest lot boundary.
func (r ExchangeRules) RoundToLot(quantity Quantity) Quantity {
	if r.LotSize <= 1 {
		return quantity
	}
	return (quantity / r.LotSize) * r.LotSize
}

// RejectReason explains why the book refused an order.
type RejectReason uint8

const (
	// RejectNone means the order was accepted.
	RejectNone RejectReason = iota
	// RejectInvalidPrice: price is non-positive or off the tick grid.
	RejectInvalidPrice
	// RejectInvalidQuantity: quantity is off the lot grid.
	RejectInvalidQuantity
	// RejectBelowMinQuantity: quantity under the exchange minimum.
	RejectBelowMinQuantity
	// RejectAboveMaxQuantity: quantity over the exchange maximum.
	RejectAboveMaxQuantity
	// RejectBelowMinNotional: order value under the notional floor.
	RejectBelowMinNotional
	// RejectDuplicateOrderID: an order with this id already rests.
	RejectDuplicateOrderID
	// RejectInvalidOrderType: the order type is not supported.
	RejectInvalidOrderType
	// RejectEmptyBook: market order with no opposite side to match.
	RejectEmptyBook
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectInvalidPrice:
		return "invalid_price"
	case RejectInvalidQuantity:
		return "invalid_quantity"
	case RejectBelowMinQuantity:
		return "below_min_quantity"
	case RejectAboveMaxQuantity:
		return "above_max_quantity"
	case RejectBelowMinNotional:
		return "below_min_notional"
	case RejectDuplicateOrderID:
		return "duplicate_order_id"
	case RejectInvalidOrderType:
		return "invalid_order_type"
	case RejectEmptyBook:
		return "empty_book"
	default:
		return "unknown"
	}
}

// OrderValidation is the outcome of validating one order.
type OrderValidation struct {
	Valid  bool
	Reason RejectReason
}

// Accept returns a passing validation.
func Accept() OrderValidation {
	return OrderValidation{Valid: true, Reason: RejectNone}
}

// Reject returns a failing validation with the given reason.
func Reject(reason RejectReason) OrderValidation {
	return OrderValidation{Valid: false, Reason: reason}
}

package orderbookv1

import (
	"errors"
	"fmt"
)

var (
	// ErrFillExceedsRemaining is returned when a fill is larger than the
	// order's remaining quantity. The order is left untouched.
	ErrFillExceedsRemaining = errors.New("fill exceeds remaining quantity")

	// ErrNotMarketOrder is returned when a non-market order is asked to
	// convert to a limit order.
	ErrNotMarketOrder = errors.New("only market orders can convert to good-till-cancel")
)

// Order is a single order owned by the book. The ID and initial quantity are
// immutable after construction; only the book mutates the remaining quantity
// (through Fill) and the price/type pair (through ToGoodTillCancel).
type Order struct {
	Type              OrderType
	ID                OrderID
	Side              Side
	Price             Price
	InitialQuantity   Quantity
	RemainingQuantity Quantity
}

// NewOrder creates an order with the given limit price.
func NewOrder(orderType OrderType, id OrderID, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		Type:              orderType,
		ID:                id,
		Side:              side,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// NewMarketOrder creates an unpriced market order. The book assigns an
// aggressive limit price when the order is accepted.
func NewMarketOrder(id OrderID, side Side, quantity Quantity) *Order {
	return NewOrder(Market, id, side, PriceInvalid, quantity)
}

// Fill reduces the remaining quantity by the traded amount. Filling more than
// remains is refused without mutation.
func (o *Order) Fill(quantity Quantity) error {
	if quantity > o.RemainingQuantity {
		return fmt.Errorf("%w: fill %d, remaining %d", ErrFillExceedsRemaining, quantity, o.RemainingQuantity)
	}
	o.RemainingQuantity -= quantity
	return nil
}

// ToGoodTillCancel converts a market order into a good-till-cancel order at
// the given price. Any other order type is refused without mutation.
func (o *Order) ToGoodTillCancel(price Price) error {
	if o.Type != Market {
		return ErrNotMarketOrder
	}
	o.Price = price
	o.Type = GoodTillCancel
	return nil
}

// IsFilled reports whether the order has no quantity left.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// FilledQuantity returns how much of the order has executed so far.
func (o *Order) FilledQuantity() Quantity {
	return o.InitialQuantity - o.RemainingQuantity
}

// OrderModify carries the replacement parameters for an existing order.
// Modification is cancel-and-replace: the new order is re-queued at the tail
// of its price level and loses time priority.
type OrderModify struct {
	OrderID  OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// ToOrder builds the replacement order, preserving the original's type.
func (m OrderModify) ToOrder(orderType OrderType) *Order {
	return NewOrder(orderType, m.OrderID, m.Side, m.Price, m.Quantity)
}

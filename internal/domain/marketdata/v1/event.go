package marketdatav1

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

var (
	// ErrUnknownEventType is returned when an envelope carries a type the
	// engine does not understand.
	ErrUnknownEventType = errors.New("unknown market data event type")

	// ErrEmptyEnvelope is returned when an envelope's payload field for its
	// declared type is missing.
	ErrEmptyEnvelope = errors.New("market data envelope has no payload")
)

// EventType identifies a market data event on the wire.
type EventType string

const (
	// EventNewOrder adds an order to the book.
	EventNewOrder EventType = "new_order"
	// EventCancel removes an order from the book.
	EventCancel EventType = "cancel"
	// EventModify replaces an order's price and quantity.
	EventModify EventType = "modify"
	// EventTrade reports an execution seen on the feed (informational).
	EventTrade EventType = "trade"
	// EventSnapshot replaces the whole book with aggregated levels.
	EventSnapshot EventType = "snapshot"
)

// Event is one market data update. The concrete types below are the only
// implementations; the book dispatches on them with a type switch.
type Event interface {
	EventType() EventType
}

// NewOrderEvent is an incremental update adding one order.
type NewOrderEvent struct {
	OrderID   orderbookv1.OrderID   `json:"orderId"`
	Side      orderbookv1.Side      `json:"side"`
	Price     orderbookv1.Price     `json:"price"`
	Quantity  orderbookv1.Quantity  `json:"quantity"`
	OrderType orderbookv1.OrderType `json:"orderType"`
	Timestamp time.Time             `json:"timestamp"`
}

// EventType implements Event.
func (NewOrderEvent) EventType() EventType { return EventNewOrder }

// CancelEvent is an incremental update removing one order.
type CancelEvent struct {
	OrderID   orderbookv1.OrderID `json:"orderId"`
	Timestamp time.Time           `json:"timestamp"`
}

// EventType implements Event.
func (CancelEvent) EventType() EventType { return EventCancel }

// ModifyEvent is an incremental update replacing an order's parameters.
type ModifyEvent struct {
	OrderID     orderbookv1.OrderID  `json:"orderId"`
	Side        orderbookv1.Side     `json:"side"`
	NewPrice    orderbookv1.Price    `json:"newPrice"`
	NewQuantity orderbookv1.Quantity `json:"newQuantity"`
	Timestamp   time.Time            `json:"timestamp"`
}

// EventType implements Event.
func (ModifyEvent) EventType() EventType { return EventModify }

// TradeEvent reports an execution between two orders on the feed. The book
// counts it but does not reconcile it against its own state.
type TradeEvent struct {
	BuyOrderID  orderbookv1.OrderID  `json:"buyOrderId"`
	SellOrderID orderbookv1.OrderID  `json:"sellOrderId"`
	Price       orderbookv1.Price    `json:"price"`
	Quantity    orderbookv1.Quantity `json:"quantity"`
	Timestamp   time.Time            `json:"timestamp"`
}

// EventType implements Event.
func (TradeEvent) EventType() EventType { return EventTrade }

// SnapshotLevel is one aggregated price level inside a snapshot.
type SnapshotLevel struct {
	Price      orderbookv1.Price    `json:"price"`
	Quantity   orderbookv1.Quantity `json:"quantity"`
	OrderCount int                  `json:"orderCount"`
}

// SnapshotEvent carries the full book state at a point in time. Bids arrive
// highest price first, asks lowest first.
type SnapshotEvent struct {
	Bids           []SnapshotLevel `json:"bids"`
	Asks           []SnapshotLevel `json:"asks"`
	Timestamp      time.Time       `json:"timestamp"`
	SequenceNumber uint64          `json:"sequenceNumber"`
}

// EventType implements Event.
func (SnapshotEvent) EventType() EventType { return EventSnapshot }

// Envelope is the wire form of an event: a type tag plus exactly one payload.
type Envelope struct {
	Type     EventType      `json:"type"`
	NewOrder *NewOrderEvent `json:"newOrder,omitempty"`
	Cancel   *CancelEvent   `json:"cancel,omitempty"`
	Modify   *ModifyEvent   `json:"modify,omitempty"`
	Trade    *TradeEvent    `json:"trade,omitempty"`
	Snapshot *SnapshotEvent `json:"snapshot,omitempty"`
}

// Event unwraps the envelope into its concrete event.
func (e Envelope) Event() (Event, error) {
	switch e.Type {
	case EventNewOrder:
		if e.NewOrder == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, e.Type)
		}
		return *e.NewOrder, nil
	case EventCancel:
		if e.Cancel == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, e.Type)
		}
		return *e.Cancel, nil
	case EventModify:
		if e.Modify == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, e.Type)
		}
		return *e.Modify, nil
	case EventTrade:
		if e.Trade == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, e.Type)
		}
		return *e.Trade, nil
	case EventSnapshot:
		if e.Snapshot == nil {
			return nil, fmt.Errorf("%w: %s", ErrEmptyEnvelope, e.Type)
		}
		return *e.Snapshot, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
	}
}

// Wrap packs a concrete event into its wire envelope.
func Wrap(event Event) (Envelope, error) {
	switch ev := event.(type) {
	case NewOrderEvent:
		return Envelope{Type: EventNewOrder, NewOrder: &ev}, nil
	case CancelEvent:
		return Envelope{Type: EventCancel, Cancel: &ev}, nil
	case ModifyEvent:
		return Envelope{Type: EventModify, Modify: &ev}, nil
	case TradeEvent:
		return Envelope{Type: EventTrade, Trade: &ev}, nil
	case SnapshotEvent:
		return Envelope{Type: EventSnapshot, Snapshot: &ev}, nil
	default:
		return Envelope{}, fmt.Errorf("%w: %T", ErrUnknownEventType, event)
	}
}

// Decode parses a wire envelope and unwraps the event it carries.
func Decode(data []byte) (Event, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return envelope.Event()
}

// Encode packs an event into envelope bytes.
func Encode(event Event) ([]byte, error) {
	envelope, err := Wrap(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope)
}

package orderbookv1

// TradeInfo records one side of an execution. The price is the resting price
// of that participant, so the two sides of a trade may record different
// prices when the aggressor crossed the spread.
type TradeInfo struct {
	OrderID  OrderID  `json:"orderId"`
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// Trade is a full execution: the bid participant and the ask participant.
type Trade struct {
	Bid TradeInfo `json:"bid"`
	Ask TradeInfo `json:"ask"`
}

// Trades is the ordered list of executions produced by one book operation.
type Trades []Trade

// TotalQuantity sums the executed quantity across all trades.
func (t Trades) TotalQuantity() Quantity {
	var total Quantity
	for _, trade := range t {
		total += trade.Bid.Quantity
	}
	return total
}

package orderbookv1

// LevelInfo is the aggregated view of one price level: the total remaining
// quantity across every order resting at that price.
type LevelInfo struct {
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// LevelInfos is a ladder of price levels, best price first.
type LevelInfos []LevelInfo

// Depth is the two-sided aggregated book view. Bids are sorted highest price
// first, asks lowest price first, so index 0 is the best level on each side.
type Depth struct {
	Bids LevelInfos `json:"bids"`
	Asks LevelInfos `json:"asks"`
}

// BestBid returns the top bid level, or false when the bid side is empty.
func (d Depth) BestBid() (LevelInfo, bool) {
	if len(d.Bids) == 0 {
		return LevelInfo{}, false
	}
	return d.Bids[0], true
}

// BestAsk returns the top ask level, or false when the ask side is empty.
func (d Depth) BestAsk() (LevelInfo, bool) {
	if len(d.Asks) == 0 {
		return LevelInfo{}, false
	}
	return d.Asks[0], true
}

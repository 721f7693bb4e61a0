package feed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

// priceScale converts exchange decimal prices and quantities to the book's
// integer units (hundredths).
const priceScale = 100

// depthResponse is the Binance-compatible depth payload: price levels as
// [price, quantity] decimal string pairs.
type depthResponse struct {
	LastUpdateID uint64     `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// ParseDepth converts a depth payload into a book snapshot event. Prices and
// quantities are parsed as decimals and scaled to integer units, so no value
// takes a float round trip.
func ParseDepth(data []byte, timestamp time.Time) (*marketdatav1.SnapshotEvent, error) {
	var response depthResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("unmarshal depth payload: %w", err)
	}

	snapshot := &marketdatav1.SnapshotEvent{
		Bids:           make([]marketdatav1.SnapshotLevel, 0, len(response.Bids)),
		Asks:           make([]marketdatav1.SnapshotLevel, 0, len(response.Asks)),
		Timestamp:      timestamp,
		SequenceNumber: response.LastUpdateID,
	}

	for _, raw := range response.Bids {
		level, err := parseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse bid level: %w", err)
		}
		snapshot.Bids = append(snapshot.Bids, level)
	}
	for _, raw := range response.Asks {
		level, err := parseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse ask level: %w", err)
		}
		snapshot.Asks = append(snapshot.Asks, level)
	}

	return snapshot, nil
}

func parseLevel(raw []string) (marketdatav1.SnapshotLevel, error) {
	if len(raw) < 2 {
		return marketdatav1.SnapshotLevel{}, fmt.Errorf("level needs price and quantity, got %d fields", len(raw))
	}

	price, err := scaleToInt(raw[0])
	if err != nil {
		return marketdatav1.SnapshotLevel{}, fmt.Errorf("price %q: %w", raw[0], err)
	}
	quantity, err := scaleToInt(raw[1])
	if err != nil {
		return marketdatav1.SnapshotLevel{}, fmt.Errorf("quantity %q: %w", raw[1], err)
	}

	return marketdatav1.SnapshotLevel{
		Price:      orderbookv1.Price(price),
		Quantity:   orderbookv1.Quantity(quantity),
		OrderCount: 1, // the depth endpoint does not expose per-order detail
	}, nil
}

func scaleToInt(value string) (int64, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, err
	}
	return d.Mul(decimal.NewFromInt(priceScale)).IntPart(), nil
}

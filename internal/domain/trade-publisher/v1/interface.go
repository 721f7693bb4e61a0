package tradepublisherv1

import (
	"context"
	"encoding/json"
	"time"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

// TradePublisher defines the interface for publishing executed trades.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type TradePublisher interface {
	PublishTrades(ctx context.Context, payload *TradeBatchPayload) error
}

// TradeBatchPayload is the wire form of the trades one book operation
// produced.
type TradeBatchPayload struct {
	Symbol      string             `json:"symbol"`
	Trades      orderbookv1.Trades `json:"trades"`
	PublishedAt time.Time          `json:"publishedAt"`
}

// ToBytes serializes the payload for the wire.
func ToBytes(payload *TradeBatchPayload) []byte {
	buf, _ := json.Marshal(payload)
	return buf
}

package tradepublisher

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	tradepublisherv1 "github.com/quantfold/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/errors"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// Publisher represents a Kafka publisher for executed trades.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for the trades topic.
func NewPublisher(cfg config.TradesConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrades publishes one batch of executed trades. The message key is a
// fresh ulid so downstream consumers can deduplicate redeliveries.
func (p *Publisher) PublishTrades(ctx context.Context, payload *tradepublisherv1.TradeBatchPayload) error {
	msg := kafka.Message{
		Key:   []byte(ulid.Make().String()),
		Value: tradepublisherv1.ToBytes(payload),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "symbol", Value: payload.Symbol},
			logger.Field{Key: "trades", Value: len(payload.Trades)},
		)
		return errors.NewTracer("failed to publish trades").Wrap(err)
	}
	return nil
}

// Close shuts the underlying Kafka writer down.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}

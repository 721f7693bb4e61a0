package eventreader

import (
	"context"

	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// Reader represents a Kafka reader for consuming market data events.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for the market data topic. It returns
// an implementation of the EventReader interface.
func NewReader(cfg config.KafkaConfig, log logger.Interface) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadEvent reads a message from the Kafka topic and decodes the market data
// envelope it carries.
func (r *Reader) ReadEvent(ctx context.Context) (kafka.Message, marketdatav1.Event, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	event, err := marketdatav1.Decode(msg.Value)
	if err != nil {
		r.logError(err, "DecodeEvent")
		return kafka.Message{}, nil, err
	}

	r.logger.Debug("ReadEvent",
		logger.Field{Key: "type", Value: string(event.EventType())},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, event, nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

package eventreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
)

// EventReader defines the interface for reading market data events from a
// feed.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=eventreaderv1_mock
type EventReader interface {
	// ReadEvent reads the next message and returns it with the decoded event
	ReadEvent(ctx context.Context) (kafka.Message, marketdatav1.Event, error)
	// SetOffset sets the offset for the reader
	SetOffset(offset int64) error
	// Close closes the reader
	Close() error
}

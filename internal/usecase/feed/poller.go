package feed

import (
	"context"
	"time"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	"github.com/quantfold/matching-engine/pkg/logger"
)

// UpdateFunc observes the book after each applied snapshot, e.g. to render a
// terminal ladder.
type UpdateFunc func(depth orderbookv1.Depth, size int, stats marketdatav1.Stats)

// Poller periodically fetches depth snapshots and feeds them into the book.
// The poller is the book's single owner while it runs.
type Poller struct {
	client   *Client
	book     *orderbook.Book
	symbol   string
	levels   int
	interval time.Duration
	logger   logger.Interface
	onUpdate UpdateFunc
}

// NewPoller creates a poller for one symbol.
func NewPoller(client *Client, book *orderbook.Book, symbol string, levels int, interval time.Duration, log logger.Interface, onUpdate UpdateFunc) *Poller {
	return &Poller{
		client:   client,
		book:     book,
		symbol:   symbol,
		levels:   levels,
		interval: interval,
		logger:   log,
		onUpdate: onUpdate,
	}
}

// Run polls until the context is cancelled. Fetch failures are logged and the
// loop keeps going; the next tick fetches a fresh snapshot.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	snapshot, err := p.client.FetchSnapshot(ctx, p.symbol, p.levels)
	if err != nil {
		return // FetchSnapshot already logged the failure
	}

	if !p.book.ProcessMarketData(*snapshot) {
		p.logger.Warn("snapshot rejected by book",
			logger.Field{Key: "symbol", Value: p.symbol},
			logger.Field{Key: "sequence", Value: snapshot.SequenceNumber},
		)
		return
	}

	if p.onUpdate != nil {
		p.onUpdate(p.book.Depth(), p.book.Size(), p.book.Stats())
	}
}

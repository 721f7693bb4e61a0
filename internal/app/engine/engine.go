package engine

import (
	"context"
	"errors"
	"time"

	eventreaderv1 "github.com/quantfold/matching-engine/internal/domain/event-reader/v1"
	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	tradepublisherv1 "github.com/quantfold/matching-engine/internal/domain/trade-publisher/v1"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
	"github.com/quantfold/matching-engine/pkg/metrics"
)

// Engine wires the market data reader, the order book and the trade
// publisher into one run loop. The loop owns the book: every event is applied
// on the loop goroutine, so the book needs no locking.
type Engine struct {
	book      *orderbook.Book
	reader    eventreaderv1.EventReader
	publisher tradepublisherv1.TradePublisher
	metrics   *metrics.Metrics
	logger    logger.Interface
	cfg       *config.Config
	opts      *Options

	// pending accumulates the trades produced while the book applies the
	// current event; the book's trade handler appends here synchronously.
	pending orderbookv1.Trades
}

// NewEngine creates an engine around an order book and its collaborators.
func NewEngine(
	book *orderbook.Book,
	reader eventreaderv1.EventReader,
	publisher tradepublisherv1.TradePublisher,
	m *metrics.Metrics,
	log logger.Interface,
	cfg *config.Config,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}

	e := &Engine{
		book:      book,
		reader:    reader,
		publisher: publisher,
		metrics:   m,
		logger:    log,
		cfg:       cfg,
		opts:      opts,
	}
	book.SetTradeHandler(e.collectTrades)

	return e
}

// Run consumes events until the context is cancelled or the reader fails
// terminally.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine started",
		logger.Field{Key: "symbol", Value: e.cfg.Symbol},
	)

	for {
		msg, event, err := e.reader.ReadEvent(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		e.handleEvent(ctx, event)

		e.logger.Debug("event applied",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "type", Value: string(event.EventType())},
		)
	}
}

func (e *Engine) collectTrades(trades orderbookv1.Trades) {
	e.pending = append(e.pending, trades...)
}

func (e *Engine) handleEvent(ctx context.Context, event marketdatav1.Event) {
	e.pending = nil

	start := time.Now()
	ok := e.book.ProcessMarketData(event)
	latency := time.Since(start)

	if !ok {
		e.metrics.ObserveFailure()
		e.logger.Warn("event refused by book",
			logger.Field{Key: "type", Value: string(event.EventType())},
		)
		return
	}

	e.metrics.ObserveEvent(string(event.EventType()), latency)
	e.metrics.SetBookState(e.book.Size(), e.book.BidLevels(), e.book.AskLevels())

	if len(e.pending) == 0 {
		return
	}

	e.metrics.AddTrades(len(e.pending))

	publishCtx, cancel := context.WithTimeout(ctx, e.opts.PublishTimeout)
	defer cancel()

	payload := &tradepublisherv1.TradeBatchPayload{
		Symbol:      e.cfg.Symbol,
		Trades:      e.pending,
		PublishedAt: time.Now(),
	}
	if err := e.publisher.PublishTrades(publishCtx, payload); err != nil {
		e.logger.Error(err,
			logger.Field{Key: "trades", Value: len(e.pending)},
		)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantfold/matching-engine/internal/app/engine"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	eventreader "github.com/quantfold/matching-engine/internal/usecase/event-reader"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	tradepublisher "github.com/quantfold/matching-engine/internal/usecase/trade-publisher"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
	"github.com/quantfold/matching-engine/pkg/metrics"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger()
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	book := orderbook.NewBook()
	book.SetExchangeRules(orderbookv1.ExchangeRules{
		TickSize:    cfg.Rules.TickSize,
		LotSize:     cfg.Rules.LotSize,
		MinQuantity: cfg.Rules.MinQuantity,
		MaxQuantity: cfg.Rules.MaxQuantity,
		MinNotional: cfg.Rules.MinNotional,
	})
	if err := book.SetDayResetTime(cfg.Clock.ResetHour, cfg.Clock.ResetMinute); err != nil {
		log.Error(err)
		os.Exit(1)
	}

	reader := eventreader.NewReader(cfg.Kafka, log)
	defer func() { _ = reader.Close() }()

	publisher := tradepublisher.NewPublisher(cfg.Trades, log)
	defer func() { _ = publisher.Close() }()

	opts := engine.DefaultEngineOptions()
	m := metrics.New(opts.MetricsNamespace)

	go func() {
		log.Info("metrics listening", logger.Field{Key: "addr", Value: cfg.Metrics.Addr})
		if err := http.ListenAndServe(cfg.Metrics.Addr, m.Handler()); err != nil {
			log.Error(err)
		}
	}()

	app := engine.NewEngine(book, reader, publisher, m, log, cfg, opts)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()

	select {
	case <-quit:
		log.Info("shutting down engine")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
	}

	log.Info("engine stopped")
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
	"github.com/quantfold/matching-engine/internal/usecase/feed"
	"github.com/quantfold/matching-engine/internal/usecase/orderbook"
	"github.com/quantfold/matching-engine/pkg/config"
	"github.com/quantfold/matching-engine/pkg/logger"
)

func main() {
	cfg := &config.Config{}
	if err := config.Load(cfg); err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	symbol := cfg.Symbol
	interval := cfg.Feed.Interval
	levels := cfg.Feed.Levels

	// Positional overrides: live-feed [SYMBOL] [REFRESH_SECONDS] [LEVELS]
	args := os.Args[1:]
	if len(args) > 0 {
		symbol = args[0]
	}
	if len(args) > 1 {
		if seconds, err := strconv.Atoi(args[1]); err == nil && seconds > 0 {
			interval = time.Duration(seconds) * time.Second
		}
	}
	if len(args) > 2 {
		if n, err := strconv.Atoi(args[2]); err == nil && n > 0 {
			levels = n
		}
	}

	log, err := logger.NewLogger(logger.WithOutputPaths([]string{"live-feed.log"}))
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	fmt.Println("========================================")
	fmt.Println("  Live Market Data Feed")
	fmt.Println("========================================")
	fmt.Printf("Symbol: %s\nRefresh Interval: %s\nDisplay Levels: %d\n\n", symbol, interval, levels)
	fmt.Println("Usage: live-feed [SYMBOL] [REFRESH_SECONDS] [LEVELS]")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	book := orderbook.NewBook()
	client := feed.NewClient(cfg.Feed, log)
	poller := feed.NewPoller(client, book, symbol, levels, interval, log, func(depth orderbookv1.Depth, size int, stats marketdatav1.Stats) {
		render(symbol, depth, size, stats, levels)
	})

	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error(err)
		os.Exit(1)
	}
}

// render draws the two-sided ladder with spread, mid price and feed stats.
func render(symbol string, depth orderbookv1.Depth, size int, stats marketdatav1.Stats, levels int) {
	fmt.Print("\033[2J\033[H") // clear screen, cursor home

	fmt.Println("========================================")
	fmt.Printf("  LIVE ORDERBOOK: %s\n", symbol)
	fmt.Printf("  %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("========================================")
	fmt.Println()
	fmt.Printf("%15s | %12s | %12s | %15s\n", "BID QTY", "BID PRICE", "ASK PRICE", "ASK QTY")
	fmt.Println(strings.Repeat("-", 65))

	rows := max(min(len(depth.Bids), levels), min(len(depth.Asks), levels))
	for i := 0; i < rows; i++ {
		if i < len(depth.Bids) {
			fmt.Printf("%15.2f | %12.2f | ", float64(depth.Bids[i].Quantity)/100, float64(depth.Bids[i].Price)/100)
		} else {
			fmt.Printf("%15s | %12s | ", "-", "-")
		}
		if i < len(depth.Asks) {
			fmt.Printf("%12.2f | %15.2f\n", float64(depth.Asks[i].Price)/100, float64(depth.Asks[i].Quantity)/100)
		} else {
			fmt.Printf("%12s | %15s\n", "-", "-")
		}
	}

	fmt.Println("========================================")

	if bid, ok := depth.BestBid(); ok {
		if ask, ok := depth.BestAsk(); ok {
			spread := float64(ask.Price-bid.Price) / 100
			mid := float64(bid.Price+ask.Price) / 200
			fmt.Printf("Best Bid: $%.2f\n", float64(bid.Price)/100)
			fmt.Printf("Best Ask: $%.2f\n", float64(ask.Price)/100)
			fmt.Printf("Spread: $%.2f (%.1f bps)\n", spread, spread/mid*10000)
			fmt.Printf("Mid Price: $%.2f\n", mid)
		}
	}

	fmt.Printf("\nOrderbook Size: %d orders\n", size)
	fmt.Printf("Messages Processed: %d\n", stats.MessagesProcessed)
	fmt.Printf("Average Latency: %s\n", stats.AverageLatency())
	fmt.Println("========================================")
	fmt.Println("\nPress Ctrl+C to exit...")
}

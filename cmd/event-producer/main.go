package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/segmentio/kafka-go"

	marketdatav1 "github.com/quantfold/matching-engine/internal/domain/marketdata/v1"
	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

// Generates a stream of random market data events for load testing the
// matching engine service.
func main() {
	var (
		brokers   = flag.String("brokers", "localhost:9092", "Kafka broker address")
		topic     = flag.String("topic", "market-data-events", "Kafka topic")
		count     = flag.Int("count", 1000, "Number of events to produce")
		basePrice = flag.Int64("base-price", 10_000, "Mid price in ticks")
		spread    = flag.Int64("spread", 500, "Price spread around the mid in ticks")
		delay     = flag.Duration("delay", 0, "Delay between events")
	)
	flag.Parse()

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: []string{*brokers},
		Topic:   *topic,
	})
	defer writer.Close()

	ctx := context.Background()
	nextID := orderbookv1.OrderID(1)

	for i := 0; i < *count; i++ {
		event := randomEvent(&nextID, orderbookv1.Price(*basePrice), orderbookv1.Price(*spread))

		value, err := marketdatav1.Encode(event)
		if err != nil {
			log.Fatalf("encode event: %v", err)
		}

		if err := writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
			log.Fatalf("write message: %v", err)
		}

		if *delay > 0 {
			time.Sleep(*delay)
		}
	}

	log.Printf("produced %d events to %s", *count, *topic)
}

// randomEvent mixes order flow: mostly new orders, some cancels and
// modifications of previously issued ids.
func randomEvent(nextID *orderbookv1.OrderID, basePrice, spread orderbookv1.Price) marketdatav1.Event {
	now := time.Now()

	roll := rand.Float64()
	switch {
	case roll < 0.70 || *nextID == 1:
		id := *nextID
		*nextID++
		return marketdatav1.NewOrderEvent{
			OrderID:   id,
			Side:      randomSide(),
			Price:     basePrice - spread + orderbookv1.Price(rand.Int63n(int64(2*spread+1))),
			Quantity:  orderbookv1.Quantity(rand.Int31n(100) + 1),
			OrderType: randomOrderType(),
			Timestamp: now,
		}
	case roll < 0.85:
		return marketdatav1.CancelEvent{
			OrderID:   orderbookv1.OrderID(rand.Int63n(int64(*nextID-1))) + 1,
			Timestamp: now,
		}
	default:
		return marketdatav1.ModifyEvent{
			OrderID:     orderbookv1.OrderID(rand.Int63n(int64(*nextID-1))) + 1,
			Side:        randomSide(),
			NewPrice:    basePrice - spread + orderbookv1.Price(rand.Int63n(int64(2*spread+1))),
			NewQuantity: orderbookv1.Quantity(rand.Int31n(100) + 1),
			Timestamp:   now,
		}
	}
}

func randomSide() orderbookv1.Side {
	if rand.Float64() < 0.5 {
		return orderbookv1.SideBuy
	}
	return orderbookv1.SideSell
}

func randomOrderType() orderbookv1.OrderType {
	switch roll := rand.Float64(); {
	case roll < 0.70:
		return orderbookv1.GoodTillCancel
	case roll < 0.80:
		return orderbookv1.ImmediateOrCancel
	case roll < 0.90:
		return orderbookv1.GoodForDay
	default:
		return orderbookv1.Market
	}
}

package orderbook

import (
	"testing"

	orderbookv1 "github.com/quantfold/matching-engine/internal/domain/orderbook/v1"
)

func BenchmarkBook_AddOrder(b *testing.B) {
	book := NewBook()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		// Spread bids over ten non-crossing levels.
		price := orderbookv1.Price(90 + i%10)
		book.AddOrder(gtc(orderbookv1.OrderID(i+1), orderbookv1.SideBuy, price, 10))
	}
}

func BenchmarkBook_AddAndCancel(b *testing.B) {
	book := NewBook()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := orderbookv1.OrderID(i + 1)
		book.AddOrder(gtc(id, orderbookv1.SideBuy, orderbookv1.Price(90+i%10), 10))
		book.CancelOrder(id)
	}
}

func BenchmarkBook_Match(b *testing.B) {
	book := NewBook()
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		id := orderbookv1.OrderID(2*i + 1)
		book.AddOrder(gtc(id, orderbookv1.SideBuy, 100, 10))
		book.AddOrder(gtc(id+1, orderbookv1.SideSell, 100, 10))
	}
}

func BenchmarkBook_Depth(b *testing.B) {
	book := NewBook()
	for i := 0; i < 1000; i++ {
		book.AddOrder(gtc(orderbookv1.OrderID(i+1), orderbookv1.SideBuy, orderbookv1.Price(1+i%50), 10))
	}
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = book.Depth()
	}
}

package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExchangeRules_IsValidPrice(t *testing.T) {
	rules := ExchangeRules{TickSize: 5, LotSize: 1, MinQuantity: 1, MaxQuantity: 100}

	tests := []struct {
		name  string
		price Price
		want  bool
	}{
		{"on tick", 100, true},
		{"off tick", 102, false},
		{"zero", 0, false},
		{"negative", -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsValidPrice(tt.price))
		})
	}
}

func TestExchangeRules_IsValidQuantity(t *testing.T) {
	rules := ExchangeRules{TickSize: 1, LotSize: 10, MinQuantity: 10, MaxQuantity: 1000}

	tests := []struct {
		name     string
		quantity Quantity
		want     bool
	}{
		{"on lot within bounds", 100, true},
		{"off lot", 105, false},
		{"below minimum", 5, false},
		{"above maximum", 1010, false},
		{"at minimum", 10, true},
		{"at maximum", 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.IsValidQuantity(tt.quantity))
		})
	}
}

func TestExchangeRules_IsValidNotional(t *testing.T) {
	rules := ExchangeRules{TickSize: 1, LotSize: 1, MinQuantity: 1, MaxQuantity: 4_000_000_000, MinNotional: 1000}

	assert.True(t, rules.IsValidNotional(100, 10))
	assert.True(t, rules.IsValidNotional(1000, 1))
	assert.False(t, rules.IsValidNotional(99, 10))

	// 64-bit product: both operands near their 32-bit limits must not wrap.
	wide := ExchangeRules{MinNotional: 1}
	assert.True(t, wide.IsValidNotional(PriceMax, 4_000_000_000))
}

func TestExchangeRules_IsValidOrder(t *testing.T) {
	rules := ExchangeRules{TickSize: 5, LotSize: 10, MinQuantity: 10, MaxQuantity: 1000, MinNotional: 500}

	assert.True(t, rules.IsValidOrder(100, 10))
	assert.False(t, rules.IsValidOrder(102, 10))  // off tick
	assert.False(t, rules.IsValidOrder(100, 15))  // off lot
	assert.False(t, rules.IsValidOrder(5, 10))    // notional 50 < 500
}

func TestExchangeRules_Rounding(t *testing.T) {
	rules := ExchangeRules{TickSize: 5, LotSize: 10}

	assert.Equal(t, Price(100), rules.RoundToTick(103))
	assert.Equal(t, Price(100), rules.RoundToTick(100))
	assert.Equal(t, Quantity(20), rules.RoundToLot(27))

	// Unit tick and lot pass values through untouched.
	unit := DefaultExchangeRules()
	assert.Equal(t, Price(103), unit.RoundToTick(103))
	assert.Equal(t, Quantity(27), unit.RoundToLot(27))
}

func TestRejectReason_String(t *testing.T) {
	assert.Equal(t, "none", RejectNone.String())
	assert.Equal(t, "duplicate_order_id", RejectDuplicateOrderID.String())
	assert.Equal(t, "empty_book", RejectEmptyBook.String())
}

func TestOrderValidation(t *testing.T) {
	accepted := Accept()
	assert.True(t, accepted.Valid)
	assert.Equal(t, RejectNone, accepted.Reason)

	rejected := Reject(RejectBelowMinNotional)
	assert.False(t, rejected.Valid)
	assert.Equal(t, RejectBelowMinNotional, rejected.Reason)
}

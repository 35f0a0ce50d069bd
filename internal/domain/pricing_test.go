package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Round2 Tests
// ============================================================================

func TestRound2_HalfRoundsUp(t *testing.T) {
	assert.Equal(t, 25.01, Round2(25.005))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 0.13, Round2(0.125))
}

func TestRound2_NoOpOnTwoDecimals(t *testing.T) {
	assert.Equal(t, 19.99, Round2(19.99))
	assert.Equal(t, 0.0, Round2(0))
}

// ============================================================================
// CalculateStats Tests
// ============================================================================

func TestCalculateStats_EmptyCart(t *testing.T) {
	stats := CalculateStats(nil)
	assert.Equal(t, 0, stats.TotalItems)
	assert.Equal(t, 0.0, stats.TotalPrice)
	assert.Equal(t, 0, stats.UniqueProducts)
	assert.Equal(t, 0.0, stats.AverageItemPrice)
}

func TestCalculateStats_MixedCart(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Price: 10.00, Quantity: 2},
		{ProductID: 2, Price: 5.005, Quantity: 1},
	}

	stats := CalculateStats(items)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 25.01, stats.TotalPrice)
	assert.Equal(t, 2, stats.UniqueProducts)
	// 25.01 / 3 units, rounded half up.
	assert.Equal(t, 8.34, stats.AverageItemPrice)
}

func TestCalculateStats_UniqueCountsSlotsNotUnits(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Price: 1, Quantity: 10},
	}

	stats := CalculateStats(items)
	assert.Equal(t, 10, stats.TotalItems)
	assert.Equal(t, 1, stats.UniqueProducts)
	assert.Equal(t, 1.0, stats.AverageItemPrice)
}

func TestCalculateStats_FractionalPricesAccumulateExactly(t *testing.T) {
	// Accumulating 0.1 three times must not drift below 0.30.
	items := []LineItem{
		{ProductID: 1, Price: 0.1, Quantity: 3},
	}

	stats := CalculateStats(items)
	assert.Equal(t, 0.3, stats.TotalPrice)
	assert.Equal(t, 0.1, stats.AverageItemPrice)
}

// ============================================================================
// Promo Code Tests
// ============================================================================

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "MOBIVERSITE", NormalizePromoCode("  mobiversite "))
	assert.Equal(t, "MOBIVERSITE", NormalizePromoCode("MobiVersite"))
	assert.Equal(t, "", NormalizePromoCode("   "))
}

func TestIsValidPromoCode(t *testing.T) {
	assert.True(t, IsValidPromoCode("MOBIVERSITE"))
	assert.True(t, IsValidPromoCode(" mobiversite"))
	assert.False(t, IsValidPromoCode("SAVE20"))
	assert.False(t, IsValidPromoCode(""))
}

func TestPromoDiscount_TwentyPercent(t *testing.T) {
	assert.Equal(t, 20.0, PromoDiscount("MOBIVERSITE", 100.00))
	assert.Equal(t, 5.0, PromoDiscount("mobiversite", 25.00))
}

func TestPromoDiscount_RoundsHalfUp(t *testing.T) {
	// 20% of 25.01 = 5.002 -> 5.00; 20% of 0.13 = 0.026 -> 0.03.
	assert.Equal(t, 5.0, PromoDiscount("MOBIVERSITE", 25.01))
	assert.Equal(t, 0.03, PromoDiscount("MOBIVERSITE", 0.13))
}

func TestPromoDiscount_InvalidCodeOrEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, PromoDiscount("SAVE20", 100.00))
	assert.Equal(t, 0.0, PromoDiscount("MOBIVERSITE", 0))
}

// ============================================================================
// NewOrderQuote Tests
// ============================================================================

func TestNewOrderQuote_EmptyCart(t *testing.T) {
	q := NewOrderQuote(nil, "")
	assert.Equal(t, 0.0, q.Subtotal)
	assert.Equal(t, 0.0, q.Shipping)
	assert.Equal(t, 0.0, q.Tax)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 0.0, q.Total)
	assert.Equal(t, "", q.PromoCode)
}

func TestNewOrderQuote_WithoutPromo(t *testing.T) {
	items := []LineItem{{ProductID: 1, Price: 50.00, Quantity: 2}}

	q := NewOrderQuote(items, "")
	assert.Equal(t, 100.00, q.Subtotal)
	assert.Equal(t, 15.00, q.Shipping)
	assert.Equal(t, 18.00, q.Tax)
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 133.00, q.Total)
}

func TestNewOrderQuote_WithPromo(t *testing.T) {
	items := []LineItem{{ProductID: 1, Price: 50.00, Quantity: 2}}

	q := NewOrderQuote(items, " mobiversite ")
	assert.Equal(t, 20.00, q.Discount)
	assert.Equal(t, 113.00, q.Total)
	assert.Equal(t, "MOBIVERSITE", q.PromoCode)
}

func TestNewOrderQuote_InvalidPromoIgnored(t *testing.T) {
	items := []LineItem{{ProductID: 1, Price: 50.00, Quantity: 2}}

	q := NewOrderQuote(items, "SAVE20")
	assert.Equal(t, 0.0, q.Discount)
	assert.Equal(t, 133.00, q.Total)
	assert.Equal(t, "", q.PromoCode)
}

func TestNewOrderQuote_ComponentsRoundedIndependently(t *testing.T) {
	// Subtotal 5.005 -> 5.01; tax 18% of 5.01 = 0.9018 -> 0.90;
	// discount 20% of 5.01 = 1.002 -> 1.00.
	items := []LineItem{{ProductID: 1, Price: 5.005, Quantity: 1}}

	q := NewOrderQuote(items, "MOBIVERSITE")
	assert.Equal(t, 5.01, q.Subtotal)
	assert.Equal(t, 15.00, q.Shipping)
	assert.Equal(t, 0.90, q.Tax)
	assert.Equal(t, 1.00, q.Discount)
	assert.Equal(t, 19.91, q.Total)
}

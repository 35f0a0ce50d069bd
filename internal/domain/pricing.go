package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidPromoCode is the only promotion code the engine accepts.
const ValidPromoCode = "MOBIVERSITE"

var (
	promoRate    = decimal.NewFromFloat(0.20)
	taxRate      = decimal.NewFromFloat(0.18)
	shippingFlat = decimal.NewFromFloat(15.00)
)

// Round2 rounds a monetary amount to two decimal places, half away from zero.
// All externally visible money goes through this before serialization.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// CartStats is the derived summary of a cart's contents.
type CartStats struct {
	TotalItems       int     `json:"total_items"`
	TotalPrice       float64 `json:"total_price"`
	UniqueProducts   int     `json:"unique_products"`
	AverageItemPrice float64 `json:"average_item_price"`
}

func subtotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// CalculateStats derives the cart summary from the given items. The average
// divides the rounded total by the unit count and is zero for an empty cart;
// there is no division by zero path.
func CalculateStats(items []LineItem) CartStats {
	stats := CartStats{UniqueProducts: len(items)}
	for _, item := range items {
		stats.TotalItems += item.Quantity
	}

	total := subtotal(items).Round(2)
	stats.TotalPrice, _ = total.Float64()

	if stats.TotalItems > 0 {
		avg := total.Div(decimal.NewFromInt(int64(stats.TotalItems))).Round(2)
		stats.AverageItemPrice, _ = avg.Float64()
	}

	return stats
}

// NormalizePromoCode trims surrounding whitespace and uppercases the code so
// user input like " mobiversite " compares equal to the canonical form.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidPromoCode reports whether the code, after normalization, is accepted.
func IsValidPromoCode(code string) bool {
	return NormalizePromoCode(code) == ValidPromoCode
}

// PromoDiscount returns the discount amount a code earns against the given
// subtotal: 20% of the subtotal for the accepted code, zero otherwise.
// A zero subtotal earns nothing regardless of the code.
func PromoDiscount(code string, sub float64) float64 {
	subD := decimal.NewFromFloat(sub)
	if !IsValidPromoCode(code) || !subD.IsPositive() {
		return 0
	}
	f, _ := subD.Mul(promoRate).Round(2).Float64()
	return f
}

// OrderQuote is the priced breakdown of a checkout: every component rounded
// independently, then composed into the total.
type OrderQuote struct {
	Subtotal  float64 `json:"subtotal"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total"`
	PromoCode string  `json:"promo_code,omitempty"`
}

// NewOrderQuote prices the given items. Shipping is a flat fee charged only
// when the cart is non-empty, tax applies to the rounded subtotal, and the
// promotion discount is subtracted last.
func NewOrderQuote(items []LineItem, promoCode string) OrderQuote {
	sub := subtotal(items).Round(2)

	shipping := decimal.Zero
	if len(items) > 0 {
		shipping = shippingFlat
	}

	tax := sub.Mul(taxRate).Round(2)

	discount := decimal.Zero
	applied := ""
	if IsValidPromoCode(promoCode) && sub.IsPositive() {
		discount = sub.Mul(promoRate).Round(2)
		applied = ValidPromoCode
	}

	total := sub.Add(shipping).Add(tax).Sub(discount).Round(2)

	q := OrderQuote{PromoCode: applied}
	q.Subtotal, _ = sub.Float64()
	q.Shipping, _ = shipping.Float64()
	q.Tax, _ = tax.Float64()
	q.Discount, _ = discount.Float64()
	q.Total, _ = total.Float64()
	return q
}

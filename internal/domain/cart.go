package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ilkeratar/mobiversite-ecommerce/pkg/errors"
)

// Rating mirrors the catalog's aggregate product rating.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductDetails carries the per-category attributes of a catalog product.
// Only the stock flag matters to the cart; the rest is copied through untouched.
type ProductDetails struct {
	InStock    bool     `json:"inStock"`
	SKU        string   `json:"sku,omitempty"`
	Brand      string   `json:"brand,omitempty"`
	Weight     string   `json:"weight,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
	Sizes      []string `json:"sizes,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Materials  []string `json:"material,omitempty"`
	Storage    []string `json:"storage,omitempty"`
	Warranty   []string `json:"warranty,omitempty"`
}

// Product is the catalog shape served by the store backend. The cart copies
// catalog fields as-is and does not validate them.
type Product struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Price       float64        `json:"price"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Rating      Rating         `json:"rating"`
	Details     ProductDetails `json:"details"`
}

// LineItem is one distinct purchasable configuration (a slot) in the cart.
// Identity is the (ProductID, SelectedOptions) pair; AddedAt is informational
// and never part of equality.
type LineItem struct {
	ProductID       int               `json:"product_id"`
	Title           string            `json:"title"`
	Price           float64           `json:"price"`
	Category        string            `json:"category"`
	Image           string            `json:"image"`
	Rating          Rating            `json:"rating"`
	InStock         bool              `json:"in_stock"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	AddedAt         time.Time         `json:"added_at"`
}

// IsValidQuantity reports whether q is usable as a line item quantity.
// Fractional quantities cannot survive the int type and are rejected at the
// JSON decode boundary before they ever reach this gate.
func IsValidQuantity(q int) bool {
	return q > 0
}

// optionEscaper protects the pair and entry delimiters so the canonical
// form stays injective even when keys or values contain them.
var optionEscaper = strings.NewReplacer(`\`, `\\`, "=", `\=`, ";", `\;`)

// CanonicalOptions serializes an option mapping into a normalized,
// order-independent string ("color=Blue;size=M"). A nil or empty mapping
// canonicalizes to the empty string, meaning no variant distinction.
// Every identity comparison goes through this form; map iteration order
// must never leak into slot identity, and distinct mappings must never
// share a canonical form.
func CanonicalOptions(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}

	pairs := make([]string, 0, len(options))
	for k, v := range options {
		pairs = append(pairs, optionEscaper.Replace(k)+"="+optionEscaper.Replace(v))
	}
	sort.Strings(pairs)

	return strings.Join(pairs, ";")
}

// Key returns the identity key of the item: the canonical
// (product id, option set) pair used for slot matching and merging.
func (li LineItem) Key() string {
	return strconv.Itoa(li.ProductID) + "|" + CanonicalOptions(li.SelectedOptions)
}

// Matches reports whether the item occupies the slot identified by the given
// product id and option set. Both option sets empty means a match, exactly one
// empty means no match, otherwise the canonical forms must be equal.
func (li LineItem) Matches(productID int, options map[string]string) bool {
	if li.ProductID != productID {
		return false
	}

	if len(li.SelectedOptions) == 0 && len(options) == 0 {
		return true
	}
	if len(li.SelectedOptions) == 0 || len(options) == 0 {
		return false
	}

	return CanonicalOptions(li.SelectedOptions) == CanonicalOptions(options)
}

// NewLineItem builds a LineItem from a catalog product, the requested quantity
// and the chosen variant options. Construction never coerces: an invalid
// quantity is an error, not a clamp.
func NewLineItem(p Product, quantity int, options map[string]string) (LineItem, error) {
	if !IsValidQuantity(quantity) {
		return LineItem{}, apperrors.InvalidInput("quantity must be a positive integer")
	}

	var opts map[string]string
	if len(options) > 0 {
		opts = make(map[string]string, len(options))
		for k, v := range options {
			opts[k] = v
		}
	}

	return LineItem{
		ProductID:       p.ID,
		Title:           p.Title,
		Price:           p.Price,
		Category:        p.Category,
		Image:           p.Image,
		Rating:          p.Rating,
		InStock:         p.Details.InStock,
		Quantity:        quantity,
		SelectedOptions: opts,
		AddedAt:         time.Now().UTC(),
	}, nil
}

// MergeItems collapses duplicate slots: one LineItem per distinct identity
// key, quantities summed, all other fields and the position taken from the
// first occurrence. Merging an already-merged sequence is a no-op.
func MergeItems(items []LineItem) []LineItem {
	merged := make([]LineItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		key := item.Key()
		if at, ok := index[key]; ok {
			merged[at].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}

	return merged
}

// FilterValidItems drops every item with an invalid quantity. Used at
// hydration time to sanitize untrusted persisted state; a bad entry is
// discarded, never repaired.
func FilterValidItems(items []LineItem) []LineItem {
	valid := make([]LineItem, 0, len(items))
	for _, item := range items {
		if IsValidQuantity(item.Quantity) {
			valid = append(valid, item)
		}
	}
	return valid
}

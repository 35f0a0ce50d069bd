package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// IsValidQuantity Tests
// ============================================================================

func TestIsValidQuantity_Positive(t *testing.T) {
	assert.True(t, IsValidQuantity(1))
	assert.True(t, IsValidQuantity(99))
}

func TestIsValidQuantity_Zero(t *testing.T) {
	assert.False(t, IsValidQuantity(0))
}

func TestIsValidQuantity_Negative(t *testing.T) {
	assert.False(t, IsValidQuantity(-1))
	assert.False(t, IsValidQuantity(-100))
}

// ============================================================================
// CanonicalOptions Tests
// ============================================================================

func TestCanonicalOptions_Empty(t *testing.T) {
	assert.Equal(t, "", CanonicalOptions(nil))
	assert.Equal(t, "", CanonicalOptions(map[string]string{}))
}

func TestCanonicalOptions_SortedByKey(t *testing.T) {
	opts := map[string]string{"size": "M", "color": "Blue"}
	assert.Equal(t, "color=Blue;size=M", CanonicalOptions(opts))
}

func TestCanonicalOptions_DelimiterValuesStayDistinct(t *testing.T) {
	// One option whose value contains the delimiters must not collide with
	// two separate options.
	single := map[string]string{"a": "b;c=d"}
	double := map[string]string{"a": "b", "c": "d"}

	assert.NotEqual(t, CanonicalOptions(single), CanonicalOptions(double))
}

func TestCanonicalOptions_EscapedFormRoundTripsDistinctly(t *testing.T) {
	cases := []map[string]string{
		{"a": `b\`},
		{"a": "b", "": "c"},
		{"a=b": "c"},
		{"a": "b=c"},
	}

	seen := make(map[string]int)
	for i, opts := range cases {
		canon := CanonicalOptions(opts)
		if prev, ok := seen[canon]; ok {
			t.Fatalf("cases %d and %d collide on %q", prev, i, canon)
		}
		seen[canon] = i
	}
}

// ============================================================================
// LineItem.Matches Tests
// ============================================================================

func TestMatches_NoOptionsBothSides(t *testing.T) {
	item := LineItem{ProductID: 7}
	assert.True(t, item.Matches(7, nil))
}

func TestMatches_NilAndEmptyAreEquivalent(t *testing.T) {
	item := LineItem{ProductID: 7, SelectedOptions: map[string]string{}}
	assert.True(t, item.Matches(7, nil))

	item = LineItem{ProductID: 7}
	assert.True(t, item.Matches(7, map[string]string{}))
}

func TestMatches_OneSideWithoutOptions(t *testing.T) {
	item := LineItem{ProductID: 7, SelectedOptions: map[string]string{"size": "M"}}
	assert.False(t, item.Matches(7, nil))

	item = LineItem{ProductID: 7}
	assert.False(t, item.Matches(7, map[string]string{"size": "M"}))
}

func TestMatches_SameOptionsDifferentInsertionOrder(t *testing.T) {
	item := LineItem{
		ProductID:       7,
		SelectedOptions: map[string]string{"size": "M", "color": "Blue"},
	}
	assert.True(t, item.Matches(7, map[string]string{"color": "Blue", "size": "M"}))
}

func TestMatches_DifferentOptionValue(t *testing.T) {
	item := LineItem{ProductID: 7, SelectedOptions: map[string]string{"size": "M"}}
	assert.False(t, item.Matches(7, map[string]string{"size": "L"}))
}

func TestMatches_DifferentProduct(t *testing.T) {
	item := LineItem{ProductID: 7, SelectedOptions: map[string]string{"size": "M"}}
	assert.False(t, item.Matches(8, map[string]string{"size": "M"}))
}

func TestMatches_DelimiterBearingValues(t *testing.T) {
	item := LineItem{ProductID: 1, SelectedOptions: map[string]string{"a": "b;c=d"}}

	assert.False(t, item.Matches(1, map[string]string{"a": "b", "c": "d"}))
	assert.True(t, item.Matches(1, map[string]string{"a": "b;c=d"}))
}

func TestMatches_SubsetOfOptions(t *testing.T) {
	item := LineItem{
		ProductID:       7,
		SelectedOptions: map[string]string{"size": "M", "color": "Blue"},
	}
	assert.False(t, item.Matches(7, map[string]string{"size": "M"}))
}

// ============================================================================
// NewLineItem Tests
// ============================================================================

func TestNewLineItem_CopiesProductFields(t *testing.T) {
	p := Product{
		ID:       3,
		Title:    "Canvas Sneakers",
		Price:    49.9,
		Category: "shoes",
		Image:    "https://img.example/3.jpg",
		Rating:   Rating{Rate: 4.2, Count: 120},
		Details:  ProductDetails{InStock: true, SKU: "SNK-3"},
	}

	item, err := NewLineItem(p, 2, map[string]string{"size": "42"})
	require.NoError(t, err)

	assert.Equal(t, 3, item.ProductID)
	assert.Equal(t, "Canvas Sneakers", item.Title)
	assert.Equal(t, 49.9, item.Price)
	assert.Equal(t, "shoes", item.Category)
	assert.Equal(t, Rating{Rate: 4.2, Count: 120}, item.Rating)
	assert.True(t, item.InStock)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, map[string]string{"size": "42"}, item.SelectedOptions)
	assert.False(t, item.AddedAt.IsZero())
}

func TestNewLineItem_RejectsInvalidQuantity(t *testing.T) {
	p := Product{ID: 3, Price: 10}

	_, err := NewLineItem(p, 0, nil)
	assert.Error(t, err)

	_, err = NewLineItem(p, -2, nil)
	assert.Error(t, err)
}

func TestNewLineItem_ClonesOptions(t *testing.T) {
	p := Product{ID: 3, Price: 10}
	opts := map[string]string{"size": "M"}

	item, err := NewLineItem(p, 1, opts)
	require.NoError(t, err)

	opts["size"] = "L"
	assert.Equal(t, "M", item.SelectedOptions["size"])
}

// ============================================================================
// MergeItems Tests
// ============================================================================

func TestMergeItems_SumsDuplicateSlots(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Title: "first", Price: 10, Quantity: 2},
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Title: "later", Price: 99, Quantity: 3},
	}

	merged := MergeItems(items)
	require.Len(t, merged, 2)

	// Quantities accumulate; every other field comes from the first occurrence.
	assert.Equal(t, 5, merged[0].Quantity)
	assert.Equal(t, "first", merged[0].Title)
	assert.Equal(t, 10.0, merged[0].Price)
	assert.Equal(t, 2, merged[1].ProductID)
}

func TestMergeItems_DistinctOptionsStaySeparate(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 1, SelectedOptions: map[string]string{"size": "M"}},
		{ProductID: 1, Quantity: 1, SelectedOptions: map[string]string{"size": "L"}},
		{ProductID: 1, Quantity: 1},
	}

	merged := MergeItems(items)
	assert.Len(t, merged, 3)
}

func TestMergeItems_DelimiterValuesKeepSeparateSlots(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 1, SelectedOptions: map[string]string{"a": "b;c=d"}},
		{ProductID: 1, Quantity: 1, SelectedOptions: map[string]string{"a": "b", "c": "d"}},
	}

	merged := MergeItems(items)
	require.Len(t, merged, 2)
	assert.Equal(t, 1, merged[0].Quantity)
	assert.Equal(t, 1, merged[1].Quantity)
}

func TestMergeItems_PreservesFirstSeenOrder(t *testing.T) {
	items := []LineItem{
		{ProductID: 3, Quantity: 1},
		{ProductID: 1, Quantity: 1},
		{ProductID: 3, Quantity: 1},
		{ProductID: 2, Quantity: 1},
	}

	merged := MergeItems(items)
	require.Len(t, merged, 3)
	assert.Equal(t, 3, merged[0].ProductID)
	assert.Equal(t, 1, merged[1].ProductID)
	assert.Equal(t, 2, merged[2].ProductID)
}

func TestMergeItems_Idempotent(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 1, Quantity: 3},
	}

	once := MergeItems(items)
	twice := MergeItems(once)
	assert.Equal(t, once, twice)
}

func TestMergeItems_Empty(t *testing.T) {
	assert.Empty(t, MergeItems(nil))
	assert.Empty(t, MergeItems([]LineItem{}))
}

// ============================================================================
// FilterValidItems Tests
// ============================================================================

func TestFilterValidItems_DropsNonPositiveQuantities(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 0},
		{ProductID: 3, Quantity: -1},
		{ProductID: 4, Quantity: 1},
	}

	valid := FilterValidItems(items)
	require.Len(t, valid, 2)
	assert.Equal(t, 1, valid[0].ProductID)
	assert.Equal(t, 4, valid[1].ProductID)
}

func TestFilterValidItems_AllValid(t *testing.T) {
	items := []LineItem{{ProductID: 1, Quantity: 1}}
	assert.Equal(t, items, FilterValidItems(items))
}

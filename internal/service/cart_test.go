package service

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestCart_AddMergesSameKey(t *testing.T) {
	f := setup(t)
	p1 := f.product(t, 1)
	c := NewCart(DefaultShippingPolicy)

	require.NoError(t, c.Add(p1, 1, "8", "#000000"))
	require.NoError(t, c.Add(p1, 2, "8", "#000000"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, domain.Money(2997000), c.Totals().Subtotal)
	assert.True(t, c.ConsumeChanged())
	assert.False(t, c.ConsumeChanged())
}

func TestCart_DistinctKeysMakeDistinctLines(t *testing.T) {
	f := setup(t)
	p1 := f.product(t, 1)
	c := NewCart(DefaultShippingPolicy)

	require.NoError(t, c.Add(p1, 1, "8", "#000000"))
	require.NoError(t, c.Add(p1, 1, "9", "#000000"))
	require.NoError(t, c.Add(p1, 1, "8", "#FFFFFF"))
	assert.Equal(t, 3, c.Count())
}

func TestCart_QuickAddDefaults(t *testing.T) {
	f := setup(t)
	p13 := f.product(t, 13)
	c := NewCart(DefaultShippingPolicy)

	require.NoError(t, c.QuickAdd(p13))
	require.NoError(t, c.QuickAdd(p13))
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, domain.DefaultSize, lines[0].Size)
	assert.Equal(t, "#FFFFFF", lines[0].Color)
	assert.Equal(t, int64(2), lines[0].Quantity)
}

func TestCart_AddDetailedRequiresSize(t *testing.T) {
	f := setup(t)
	p := f.product(t, 2)
	c := NewCart(DefaultShippingPolicy)

	err := c.AddDetailed(p, 1, "", "#000000")
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "size", verr.Field)
	assert.Zero(t, c.Count())
	assert.False(t, c.ConsumeChanged())

	assert.ErrorIs(t, c.AddDetailed(p, 1, "14", "#000000"), domain.ErrValidation)
	assert.ErrorIs(t, c.AddDetailed(p, 1, "9", "#123456"), domain.ErrValidation)
	assert.ErrorIs(t, c.AddDetailed(p, 0, "9", "#000000"), domain.ErrValidation)

	// color falls back to the first swatch
	require.NoError(t, c.AddDetailed(p, 2, "9", ""))
	assert.Equal(t, "#000000", c.Lines()[0].Color)
}

func TestCart_UpdateQuantity(t *testing.T) {
	f := setup(t)
	p1, p3 := f.product(t, 1), f.product(t, 3)
	c := NewCart(DefaultShippingPolicy)
	require.NoError(t, c.Add(p1, 1, "8", "#000000"))
	require.NoError(t, c.Add(p1, 1, "9", "#000000"))
	require.NoError(t, c.Add(p3, 2, "9", "#1EAEDB"))

	updated := func(ok bool, err error) bool {
		t.Helper()
		require.NoError(t, err)
		return ok
	}

	assert.False(t, updated(c.UpdateQuantity(1, 0)))
	assert.False(t, updated(c.UpdateQuantity(1, -4)))
	for _, l := range c.Lines() {
		if l.Product.ID == 1 {
			assert.Equal(t, int64(1), l.Quantity)
		}
	}

	// sets, never increments
	assert.True(t, updated(c.UpdateQuantity(1, 5)))
	for _, l := range c.Lines() {
		if l.Product.ID == 1 {
			assert.Equal(t, int64(5), l.Quantity)
		}
	}
	assert.False(t, updated(c.UpdateQuantity(99, 2)))

	key := domain.LineKey{ProductID: 3, Size: "9", Color: "#1EAEDB"}
	assert.True(t, updated(c.UpdateLineQuantity(key, 7)))
	assert.False(t, updated(c.UpdateLineQuantity(key, 0)))
	assert.Equal(t, int64(7), c.Lines()[2].Quantity)
}

func TestCart_QuantityCap(t *testing.T) {
	f := setup(t)
	p1 := f.product(t, 1)
	c := NewCart(DefaultShippingPolicy)

	assert.ErrorIs(t, c.Add(p1, math.MaxInt64, "8", "#000000"), domain.ErrValidation)
	assert.Zero(t, c.Count())

	require.NoError(t, c.Add(p1, domain.MaxQuantity-1, "8", "#000000"))
	require.NoError(t, c.Add(p1, 1, "8", "#000000"))
	// a merge past the cap is rejected and leaves the line as it was
	assert.ErrorIs(t, c.Add(p1, 1, "8", "#000000"), domain.ErrValidation)
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, int64(domain.MaxQuantity), c.Lines()[0].Quantity)

	_, err := c.UpdateQuantity(1, 1e13)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = c.UpdateLineQuantity(c.Lines()[0].Key(), domain.MaxQuantity+1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	tot := c.Totals()
	assert.Equal(t, domain.Money(domain.MaxQuantity*999000), tot.Subtotal)
	assert.Positive(t, int64(tot.Total))
}

func TestCart_Remove(t *testing.T) {
	f := setup(t)
	p1, p3 := f.product(t, 1), f.product(t, 3)
	c := NewCart(DefaultShippingPolicy)
	require.NoError(t, c.Add(p1, 1, "8", "#000000"))
	require.NoError(t, c.Add(p3, 1, "8", "#000000"))
	require.NoError(t, c.Add(p1, 1, "9", "#000000"))

	assert.Equal(t, 2, c.RemoveItem(1))
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, int64(3), c.Lines()[0].Product.ID)
	assert.Equal(t, 0, c.RemoveItem(1))

	assert.True(t, c.RemoveLine(domain.LineKey{ProductID: 3, Size: "8", Color: "#000000"}))
	assert.Zero(t, c.Count())
}

func TestComputeTotals_Shipping(t *testing.T) {
	line := func(price domain.Money, qty int64) domain.CartLine {
		return domain.CartLine{Product: domain.Product{ID: 1, Price: price, Colors: []string{"x"}}, Quantity: qty}
	}

	got := ComputeTotals([]domain.CartLine{line(150000, 3)}, DefaultShippingPolicy)
	assert.Equal(t, domain.Totals{Subtotal: 450000, Shipping: 30000, Total: 480000}, got)

	got = ComputeTotals([]domain.CartLine{line(600000, 1)}, DefaultShippingPolicy)
	assert.Equal(t, domain.Totals{Subtotal: 600000, Shipping: 0, Total: 600000}, got)

	// the threshold itself still pays shipping
	got = ComputeTotals([]domain.CartLine{line(500000, 1)}, DefaultShippingPolicy)
	assert.Equal(t, domain.Money(30000), got.Shipping)

	got = ComputeTotals(nil, DefaultShippingPolicy)
	assert.Equal(t, domain.Totals{Subtotal: 0, Shipping: 30000, Total: 30000}, got)
}

func TestComputeTotals_UsesDiscountPrice(t *testing.T) {
	f := setup(t)
	lines := []domain.CartLine{
		{Product: f.product(t, 1), Quantity: 1, Size: "8", Color: "#000000"},
		{Product: f.product(t, 3), Quantity: 2, Size: "9", Color: "#1EAEDB"},
	}
	got := ComputeTotals(lines, DefaultShippingPolicy)
	assert.Equal(t, domain.Money(999000+2*949000), got.Subtotal)
	assert.Zero(t, got.Shipping)
}

func TestWishlist_Toggle(t *testing.T) {
	f := setup(t)
	w := NewWishlist()
	p1, p2 := f.product(t, 1), f.product(t, 2)

	assert.True(t, w.Toggle(p1))
	assert.True(t, w.Toggle(p2))
	assert.True(t, w.IsWishlisted(1))
	assert.False(t, w.Toggle(p1))
	assert.False(t, w.IsWishlisted(1))
	require.Len(t, w.Items(), 1)
	assert.Equal(t, int64(2), w.Items()[0].Product.ID)
	assert.Equal(t, 1, w.Count())
}

package service

import (
	"fmt"
	"slices"

	"storefront/internal/domain"
)

// ShippingPolicy decides the shipping fee from the subtotal.
type ShippingPolicy struct {
	FreeThreshold domain.Money
	FlatFee       domain.Money
}

// DefaultShippingPolicy ships free above Rp 500.000 and charges Rp 30.000 otherwise.
var DefaultShippingPolicy = ShippingPolicy{FreeThreshold: 500000, FlatFee: 30000}

// Fee returns the shipping fee for subtotal.
func (p ShippingPolicy) Fee(subtotal domain.Money) domain.Money {
	if subtotal > p.FreeThreshold {
		return 0
	}
	return p.FlatFee
}

// ComputeTotals sums the lines at their effective price and applies the policy.
func ComputeTotals(lines []domain.CartLine, policy ShippingPolicy) domain.Totals {
	var subtotal domain.Money
	for _, l := range lines {
		subtotal += l.Amount()
	}
	shipping := policy.Fee(subtotal)
	return domain.Totals{Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping}
}

// Cart holds the line items of one session. It is not safe for concurrent
// use; Session serialises access.
type Cart struct {
	lines   []domain.CartLine
	policy  ShippingPolicy
	changed bool
}

func NewCart(policy ShippingPolicy) *Cart {
	return &Cart{policy: policy}
}

// Add merges into the line with the same (product, size, color) key or
// appends a new one. It never lowers an existing quantity.
func (c *Cart) Add(p domain.Product, quantity int64, size, color string) error {
	if quantity < 1 {
		return &domain.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}
	if quantity > domain.MaxQuantity {
		return quantityTooLarge()
	}
	if !domain.ValidSize(size) {
		return &domain.ValidationError{Field: "size", Message: "unknown size " + size}
	}
	if !p.HasColor(color) {
		return &domain.ValidationError{Field: "color", Message: "color not offered for " + p.Name}
	}
	key := domain.LineKey{ProductID: p.ID, Size: size, Color: color}
	if i := c.index(key); i >= 0 {
		if c.lines[i].Quantity+quantity > domain.MaxQuantity {
			return quantityTooLarge()
		}
		c.lines[i].Quantity += quantity
	} else {
		c.lines = append(c.lines, domain.CartLine{Product: p, Quantity: quantity, Size: size, Color: color})
	}
	c.changed = true
	return nil
}

// QuickAdd adds one unit with the placeholder size and the first color.
func (c *Cart) QuickAdd(p domain.Product) error {
	if len(p.Colors) == 0 {
		return &domain.ValidationError{Field: "color", Message: "product has no colors"}
	}
	return c.Add(p, 1, domain.DefaultSize, p.Colors[0])
}

// AddDetailed is the product-detail path: the shopper must pick a size.
func (c *Cart) AddDetailed(p domain.Product, quantity int64, size, color string) error {
	if size == "" {
		return &domain.ValidationError{Field: "size", Message: "Please select a size"}
	}
	if color == "" && len(p.Colors) > 0 {
		color = p.Colors[0]
	}
	return c.Add(p, quantity, size, color)
}

// UpdateQuantity sets every line of the product to exactly n. Values below 1
// are ignored. It reports whether any line changed.
func (c *Cart) UpdateQuantity(productID int64, n int64) (bool, error) {
	if n < 1 {
		return false, nil
	}
	if n > domain.MaxQuantity {
		return false, quantityTooLarge()
	}
	updated := false
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = n
			updated = true
		}
	}
	return updated, nil
}

// UpdateLineQuantity sets a single line to exactly n. Values below 1 are ignored.
func (c *Cart) UpdateLineQuantity(key domain.LineKey, n int64) (bool, error) {
	if n < 1 {
		return false, nil
	}
	if n > domain.MaxQuantity {
		return false, quantityTooLarge()
	}
	i := c.index(key)
	if i < 0 {
		return false, nil
	}
	c.lines[i].Quantity = n
	return true, nil
}

// RemoveItem deletes all lines of the product and returns how many went.
func (c *Cart) RemoveItem(productID int64) int {
	before := len(c.lines)
	c.lines = slices.DeleteFunc(c.lines, func(l domain.CartLine) bool {
		return l.Product.ID == productID
	})
	return before - len(c.lines)
}

// RemoveLine deletes one line by key.
func (c *Cart) RemoveLine(key domain.LineKey) bool {
	i := c.index(key)
	if i < 0 {
		return false
	}
	c.lines = slices.Delete(c.lines, i, i+1)
	return true
}

func (c *Cart) Clear() { c.lines = nil }

// Lines returns a copy of the line items in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	return slices.Clone(c.lines)
}

// Count is the number of lines, shown on the cart badge.
func (c *Cart) Count() int { return len(c.lines) }

func (c *Cart) Totals() domain.Totals {
	return ComputeTotals(c.lines, c.policy)
}

// ConsumeChanged reports whether an add happened since the last call.
func (c *Cart) ConsumeChanged() bool {
	ch := c.changed
	c.changed = false
	return ch
}

func quantityTooLarge() error {
	return &domain.ValidationError{Field: "quantity", Message: fmt.Sprintf("quantity cannot exceed %d", domain.MaxQuantity)}
}

func (c *Cart) index(key domain.LineKey) int {
	return slices.IndexFunc(c.lines, func(l domain.CartLine) bool { return l.Key() == key })
}

package service

import (
	"slices"

	"storefront/internal/domain"
)

// Wishlist is a set of products keyed by id, kept in insertion order.
type Wishlist struct {
	entries []domain.WishlistEntry
}

func NewWishlist() *Wishlist { return &Wishlist{} }

// Toggle removes the product when present and adds it otherwise. It reports
// whether the product is wishlisted afterwards.
func (w *Wishlist) Toggle(p domain.Product) bool {
	if i := w.index(p.ID); i >= 0 {
		w.entries = slices.Delete(w.entries, i, i+1)
		return false
	}
	w.entries = append(w.entries, domain.WishlistEntry{Product: p})
	return true
}

func (w *Wishlist) IsWishlisted(productID int64) bool {
	return w.index(productID) >= 0
}

func (w *Wishlist) Items() []domain.WishlistEntry {
	return slices.Clone(w.entries)
}

func (w *Wishlist) Count() int { return len(w.entries) }

func (w *Wishlist) index(id int64) int {
	return slices.IndexFunc(w.entries, func(e domain.WishlistEntry) bool { return e.Product.ID == id })
}

package repository

import (
	"context"
	"strings"

	"storefront/internal/domain"
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = domain.ErrNotFound

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	NameSubstring string
	Category      string
	MinPrice      *domain.Money
	MaxPrice      *domain.Money
}

// CatalogRepository serves the read-only product catalog.
type CatalogRepository interface {
	Shelves(ctx context.Context) (domain.ShelfMap, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// TrackingRepository looks up shipment projections by order id. The in-memory
// registry can be swapped for an order-management client behind this interface.
type TrackingRepository interface {
	Lookup(ctx context.Context, orderID string) (*domain.TrackingRecord, error)
	Register(ctx context.Context, rec *domain.TrackingRecord) error
}

// OrderRepository stores placed orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
}

// TxManager runs fn as one atomic unit. The in-memory store uses the global write lock.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain"
)

// MemoryStore holds the catalog, the tracking registry and placed orders.
type MemoryStore struct {
	mu           sync.RWMutex
	shelfOrder   []string
	shelfIDs     map[string][]int64
	productsByID map[int64]domain.Product
	tracking     map[string]domain.TrackingRecord
	ordersByID   map[string]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shelfIDs:     make(map[string][]int64),
		productsByID: make(map[int64]domain.Product),
		tracking:     make(map[string]domain.TrackingRecord),
		ordersByID:   make(map[string]domain.Order),
	}
}

// NewMemoryStoreFromSeed builds a store from a validated seed.
func NewMemoryStoreFromSeed(s *Seed) (*MemoryStore, error) {
	m := NewMemoryStore()
	for _, shelf := range s.Shelves {
		if _, dup := m.shelfIDs[shelf.Name]; dup {
			return nil, fmt.Errorf("shelf %q declared twice", shelf.Name)
		}
		m.shelfOrder = append(m.shelfOrder, shelf.Name)
		ids := make([]int64, 0, len(shelf.Products))
		for _, p := range shelf.Products {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("shelf %q product %d: %w", shelf.Name, p.ID, err)
			}
			if prev, ok := m.productsByID[p.ID]; ok && prev.Name != p.Name {
				return nil, fmt.Errorf("product id %d reused for %q and %q", p.ID, prev.Name, p.Name)
			}
			m.productsByID[p.ID] = p
			ids = append(ids, p.ID)
		}
		m.shelfIDs[shelf.Name] = ids
	}
	for _, rec := range s.Tracking {
		if err := validateTracking(rec); err != nil {
			return nil, err
		}
		m.tracking[rec.OrderID] = rec
	}
	return m, nil
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var (
	_ CatalogRepository  = (*MemoryStore)(nil)
	_ TrackingRepository = (*MemoryStore)(nil)
)

// Shelves returns every shelf in declaration order. Slices are fresh copies.
func (m *MemoryStore) Shelves(ctx context.Context) (domain.ShelfMap, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make(domain.ShelfMap, 0, len(m.shelfOrder))
	for _, name := range m.shelfOrder {
		ids := m.shelfIDs[name]
		products := make([]domain.Product, 0, len(ids))
		for _, id := range ids {
			products = append(products, m.productsByID[id])
		}
		out = append(out, domain.Shelf{Name: name, Products: products})
	}
	return out, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

// List walks the shelves so the result order is stable; a product listed on
// several shelves appears once.
func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0)
	seen := make(map[int64]struct{})
	for _, name := range m.shelfOrder {
		for _, id := range m.shelfIDs[name] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			p := m.productsByID[id]
			if !containsIgnoreCase(p.Name, f.NameSubstring) {
				continue
			}
			if f.Category != "" && !strings.Contains(p.Category, f.Category) {
				continue
			}
			price := p.EffectivePrice()
			if f.MinPrice != nil && price < *f.MinPrice {
				continue
			}
			if f.MaxPrice != nil && price > *f.MaxPrice {
				continue
			}
			out = append(out, p)
		}
	}
	return out, nil
}

// Lookup matches the order id exactly.
func (m *MemoryStore) Lookup(ctx context.Context, orderID string) (*domain.TrackingRecord, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	rec, ok := m.tracking[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := rec
	cp.Items = append([]domain.TrackedItem(nil), rec.Items...)
	cp.Events = append([]domain.TrackingEvent(nil), rec.Events...)
	return &cp, nil
}

func (m *MemoryStore) Register(ctx context.Context, rec *domain.TrackingRecord) error {
	if err := validateTracking(*rec); err != nil {
		return err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.tracking[rec.OrderID]; ok {
		return fmt.Errorf("tracking record %s already registered", rec.OrderID)
	}
	m.tracking[rec.OrderID] = *rec
	return nil
}

func validateTracking(rec domain.TrackingRecord) error {
	if rec.OrderID == "" {
		return &domain.ValidationError{Field: "order_id", Message: "order id is required"}
	}
	switch rec.Status {
	case domain.TrackingProcessing, domain.TrackingShipping, domain.TrackingDelivered:
	default:
		return &domain.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q for %s", rec.Status, rec.OrderID)}
	}
	if rec.ProgressPercentage < 0 || rec.ProgressPercentage > 100 {
		return &domain.ValidationError{Field: "progress_percentage", Message: fmt.Sprintf("progress out of range for %s", rec.OrderID)}
	}
	return nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	if _, ok := mo.store.ordersByID[o.ID]; ok {
		return fmt.Errorf("order %s already exists", o.ID)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	cp.Lines = append([]domain.CartLine(nil), o.Lines...)
	return &cp, nil
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// repositories skip their own locks while the context carries txKey
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}

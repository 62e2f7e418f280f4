package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type fixture struct {
	store    *repository.MemoryStore
	orders   *repository.MemoryOrders
	checkout *CheckoutService
	tracking *TrackingService
	deps     SessionDeps
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store, err := repository.NewMemoryStoreFromSeed(repository.DefaultSeed())
	require.NoError(t, err)
	orders := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)
	checkout := NewCheckoutService(orders, store, tx, CheckoutOptions{OrderID: NewOrderIDs(100000)})
	tracking := NewTrackingService(store)
	return &fixture{
		store:    store,
		orders:   orders,
		checkout: checkout,
		tracking: tracking,
		deps: SessionDeps{
			Catalog:  store,
			Checkout: checkout,
			Tracking: tracking,
			Now:      func() time.Time { return time.Date(2025, 4, 10, 9, 15, 0, 0, time.UTC) },
		},
	}
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), "test-session", f.deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func (f *fixture) product(t *testing.T, id int64) domain.Product {
	t.Helper()
	p, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	return *p
}

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName:     "Budi",
		LastName:      "Santoso",
		Email:         "budi@example.com",
		Phone:         "08123456789",
		Address:       "Jalan Sudirman No. 123",
		City:          "Jakarta",
		PostalCode:    "10220",
		State:         "DKI Jakarta",
		Country:       "Indonesia",
		PaymentMethod: domain.PaymentCredit,
	}
}

func kinds(ns []domain.Notification) []domain.NotificationKind {
	out := make([]domain.NotificationKind, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Kind)
	}
	return out
}

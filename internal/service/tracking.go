package service

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

type TrackingService struct {
	repo repository.TrackingRepository
}

func NewTrackingService(repo repository.TrackingRepository) *TrackingService {
	return &TrackingService{repo: repo}
}

// LookupOrder matches orderID exactly against the registry.
func (s *TrackingService) LookupOrder(ctx context.Context, orderID string) (*domain.TrackingRecord, error) {
	return s.repo.Lookup(ctx, orderID)
}

// TrackOrder is the form entry point: surrounding spaces are dropped and an
// empty id is rejected.
func (s *TrackingService) TrackOrder(ctx context.Context, raw string) (*domain.TrackingRecord, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return nil, &domain.ValidationError{Field: "order_id", Message: "Please enter an order ID to track"}
	}
	return s.LookupOrder(ctx, id)
}

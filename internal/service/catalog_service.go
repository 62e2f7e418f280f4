package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

// CatalogService is the read side of the product catalog.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, &domain.ValidationError{Field: "id", Message: "product id must be positive"}
	}
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) Shelves(ctx context.Context) (domain.ShelfMap, error) {
	return s.repo.Shelves(ctx)
}

func (s *CatalogService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, &domain.ValidationError{Field: "price", Message: "min price exceeds max price"}
	}
	return s.repo.List(ctx, f)
}

// Search runs the storefront filter over the catalog shelves.
func (s *CatalogService) Search(ctx context.Context, query, category string) (ShelfView, error) {
	shelves, err := s.repo.Shelves(ctx)
	if err != nil {
		return ShelfView{}, err
	}
	return ComputeVisibleShelves(shelves, query, category), nil
}

package services

import (
	"context"

	"tacklepos/internal/domain"
)

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(catalog *CatalogService) *InventoryService {
	return &InventoryService{Catalog: catalog}
}

// CheckAvailability converts stock into IN_STOCK / LOW_STOCK / OUT_OF_STOCK
// using the product's own alert threshold.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Catalog.Find(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return Classify(p), nil
}

func Classify(p domain.Product) domain.Availability {
	status := domain.StatusInStock
	switch {
	case p.Stock <= 0:
		status = domain.StatusOutOfStock
	case p.Stock <= p.MinStockAlert:
		status = domain.StatusLowStock
	}
	return domain.Availability{Status: status, Qty: p.Stock}
}

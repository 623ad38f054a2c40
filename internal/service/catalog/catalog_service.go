package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"washbooking/internal/domain"
	"washbooking/internal/repository"
)

// UnknownServicesError names every selected key that does not resolve
// against the catalog.
type UnknownServicesError struct {
	Keys []string
}

func (e *UnknownServicesError) Error() string {
	return "unknown services: " + strings.Join(e.Keys, ", ")
}

type CatalogUseCase interface {
	List(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error)
	ResolveSelection(ctx context.Context, keys []string, vehicleType domain.VehicleType) (*domain.Selection, error)
}

type Cache interface {
	GetServices(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error)
	SetServices(ctx context.Context, vehicleType domain.VehicleType, items []domain.ServiceItem) error
}

type CatalogService struct {
	repo   repository.ServiceRepository
	cache  Cache
	logger *zap.Logger
}

func NewCatalogService(repo repository.ServiceRepository, cache Cache, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// List returns active services with effective prices for the vehicle type.
// An empty vehicle type returns base prices.
func (s *CatalogService) List(ctx context.Context, vehicleType domain.VehicleType) ([]domain.ServiceItem, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetServices(ctx, vehicleType); err == nil && cached != nil {
			return cached, nil
		}
	}

	var items []domain.ServiceItem
	var err error
	if vehicleType == "" {
		items, err = s.repo.List(ctx)
	} else {
		items, err = s.repo.ListForVehicle(ctx, vehicleType)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetServices(ctx, vehicleType, items); err != nil {
			s.logger.Warn("failed to cache services", zap.Error(err))
		}
	}
	return items, nil
}

// ResolveSelection prices a selection for the vehicle type, preserving the
// order keys were chosen in. Every key must exist in the catalog.
func (s *CatalogService) ResolveSelection(ctx context.Context, keys []string, vehicleType domain.VehicleType) (*domain.Selection, error) {
	items, err := s.List(ctx, vehicleType)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]domain.ServiceItem, len(items))
	for _, it := range items {
		byKey[it.Key] = it
	}

	sel := &domain.Selection{Keys: keys, Total: decimal.Zero}
	var unknown []string
	for _, k := range keys {
		it, ok := byKey[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		sel.Items = append(sel.Items, it)
		sel.Total = sel.Total.Add(it.Price)
		sel.DurationMinutes += it.DurationMinutes
	}
	if len(unknown) > 0 {
		return nil, &UnknownServicesError{Keys: unknown}
	}
	return sel, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)

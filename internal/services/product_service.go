package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reybrally/product-composite-service/internal/adapters/cache"
	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
	"github.com/reybrally/product-composite-service/internal/validation"
)

type ProductService struct {
	store          app.ProductStore
	cacheService   cache.Cache
	serviceAddress string
}

func NewProductService(store app.ProductStore, cacheService cache.Cache, serviceAddress string) *ProductService {
	return &ProductService{store: store, cacheService: cacheService, serviceAddress: serviceAddress}
}

func (s *ProductService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := validation.IsValidProduct(p); err != nil {
		return domain.Product{}, err
	}

	stored, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, err
	}
	_ = s.cacheService.Set(stored.ProductID, stored)
	return stored, nil
}

// GetProduct reads through the cache and stamps the instance address on the
// response. The address is an origin annotation, not part of the entity, so
// the cache holds the unstamped form.
func (s *ProductService) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	if err := validation.IsValidProductID(productID); err != nil {
		return domain.Product{}, err
	}

	if p, err := s.cacheService.Get(productID); err == nil {
		p.ServiceAddress = s.serviceAddress
		return p, nil
	}

	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	_ = s.cacheService.Set(productID, p)
	p.ServiceAddress = s.serviceAddress
	return p, nil
}

// DeleteProduct is idempotent: deleting an absent product succeeds.
func (s *ProductService) DeleteProduct(ctx context.Context, productID int) error {
	if err := validation.IsValidProductID(productID); err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, productID); err != nil {
		return err
	}
	_ = s.cacheService.Delete(productID)
	logging.LogDebug("product deleted", logrus.Fields{"product_id": productID})
	return nil
}

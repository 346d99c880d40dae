package cache

import domain "github.com/reybrally/product-composite-service/internal/domain/catalog"

type Cache interface {
	Set(key int, p domain.Product) error
	Get(key int) (domain.Product, error)
	Delete(key int) error
}

package catalog

import (
	"context"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

// Store ports, one capability set per entity type. Each store exclusively
// owns its table; delete-by-productId is always a success, including when
// zero rows match.

type ProductStore interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID int) error
}

type RecommendationStore interface {
	CreateRecommendation(ctx context.Context, r domain.Recommendation) (domain.Recommendation, error)
	GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error)
	DeleteRecommendations(ctx context.Context, productID int) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	GetReviews(ctx context.Context, productID int) ([]domain.Review, error)
	DeleteReviews(ctx context.Context, productID int) error
}

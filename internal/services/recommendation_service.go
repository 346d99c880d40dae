package services

import (
	"context"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/validation"
)

type RecommendationService struct {
	store          app.RecommendationStore
	serviceAddress string
}

func NewRecommendationService(store app.RecommendationStore, serviceAddress string) *RecommendationService {
	return &RecommendationService{store: store, serviceAddress: serviceAddress}
}

func (s *RecommendationService) CreateRecommendation(ctx context.Context, r domain.Recommendation) (domain.Recommendation, error) {
	if err := validation.IsValidRecommendation(r); err != nil {
		return domain.Recommendation{}, err
	}
	return s.store.CreateRecommendation(ctx, r)
}

// GetRecommendations returns the product's recommendations, stamped with the
// instance address. An empty result is normal, not an error.
func (s *RecommendationService) GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error) {
	if err := validation.IsValidProductID(productID); err != nil {
		return nil, err
	}

	recs, err := s.store.GetRecommendations(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].ServiceAddress = s.serviceAddress
	}
	return recs, nil
}

func (s *RecommendationService) DeleteRecommendations(ctx context.Context, productID int) error {
	if err := validation.IsValidProductID(productID); err != nil {
		return err
	}
	return s.store.DeleteRecommendations(ctx, productID)
}

package services

import (
	"context"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/validation"
)

type ReviewService struct {
	store          app.ReviewStore
	serviceAddress string
}

func NewReviewService(store app.ReviewStore, serviceAddress string) *ReviewService {
	return &ReviewService{store: store, serviceAddress: serviceAddress}
}

func (s *ReviewService) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	if err := validation.IsValidReview(r); err != nil {
		return domain.Review{}, err
	}
	return s.store.CreateReview(ctx, r)
}

func (s *ReviewService) GetReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	if err := validation.IsValidProductID(productID); err != nil {
		return nil, err
	}

	revs, err := s.store.GetReviews(ctx, productID)
	if err != nil {
		return nil, err
	}
	for i := range revs {
		revs[i].ServiceAddress = s.serviceAddress
	}
	return revs, nil
}

func (s *ReviewService) DeleteReviews(ctx context.Context, productID int) error {
	if err := validation.IsValidProductID(productID); err != nil {
		return err
	}
	return s.store.DeleteReviews(ctx, productID)
}

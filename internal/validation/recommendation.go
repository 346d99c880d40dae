package validation

import (
	"fmt"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

func IsValidRecommendation(r domain.Recommendation) error {
	if err := IsValidProductID(r.ProductID); err != nil {
		return err
	}
	if r.RecommendationID < 1 {
		return fmt.Errorf("%w: invalid recommendationId: %d", app.ErrInvalidInput, r.RecommendationID)
	}
	if r.Rate < 0 {
		return fmt.Errorf("%w: invalid rate: %d", app.ErrInvalidInput, r.Rate)
	}
	return nil
}

package validation

import (
	"fmt"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

func IsValidReview(r domain.Review) error {
	if err := IsValidProductID(r.ProductID); err != nil {
		return err
	}
	if r.ReviewID < 1 {
		return fmt.Errorf("%w: invalid reviewId: %d", app.ErrInvalidInput, r.ReviewID)
	}
	return nil
}

package validation

import (
	"fmt"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

func IsValidProductID(productID int) error {
	if productID < 1 {
		return fmt.Errorf("%w: invalid productId: %d", app.ErrInvalidInput, productID)
	}
	return nil
}

func IsValidProduct(p domain.Product) error {
	if err := IsValidProductID(p.ProductID); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("%w: product name is required", app.ErrInvalidInput)
	}
	return nil
}

package clients

import (
	"context"
	"strconv"
	"time"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type ProductClient struct {
	httpClient
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{newHTTPClient(baseURL, timeout)}
}

func (c *ProductClient) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	var p domain.Product
	if err := c.getJSON(ctx, "/product/"+strconv.Itoa(productID), &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (c *ProductClient) Health(ctx context.Context) error { return c.health(ctx) }

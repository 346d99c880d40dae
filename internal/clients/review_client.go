package clients

import (
	"context"
	"strconv"
	"time"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type ReviewClient struct {
	httpClient
}

func NewReviewClient(baseURL string, timeout time.Duration) *ReviewClient {
	return &ReviewClient{newHTTPClient(baseURL, timeout)}
}

func (c *ReviewClient) GetReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	var revs []domain.Review
	if err := c.getJSON(ctx, "/review/"+strconv.Itoa(productID), &revs); err != nil {
		return nil, err
	}
	return revs, nil
}

func (c *ReviewClient) Health(ctx context.Context) error { return c.health(ctx) }

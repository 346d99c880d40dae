package clients

import (
	"context"
	"strconv"
	"time"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type RecommendationClient struct {
	httpClient
}

func NewRecommendationClient(baseURL string, timeout time.Duration) *RecommendationClient {
	return &RecommendationClient{newHTTPClient(baseURL, timeout)}
}

func (c *RecommendationClient) GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error) {
	var recs []domain.Recommendation
	if err := c.getJSON(ctx, "/recommendation/"+strconv.Itoa(productID), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *RecommendationClient) Health(ctx context.Context) error { return c.health(ctx) }

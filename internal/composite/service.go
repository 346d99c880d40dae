// Package composite implements the aggregation orchestrator: it owns no
// persistent state and composes the three entity services into one
// product aggregate.
package composite

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
	"github.com/reybrally/product-composite-service/internal/validation"
)

type ProductSource interface {
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
	Health(ctx context.Context) error
}

type RecommendationSource interface {
	GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error)
	Health(ctx context.Context) error
}

type ReviewSource interface {
	GetReviews(ctx context.Context, productID int) ([]domain.Review, error)
	Health(ctx context.Context) error
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key int, event any) error
}

type Topics struct {
	Products        string
	Recommendations string
	Reviews         string
}

type Service struct {
	products        ProductSource
	recommendations RecommendationSource
	reviews         ReviewSource
	publisher       Publisher
	topics          Topics
	serviceAddress  string
}

func NewService(
	products ProductSource,
	recommendations RecommendationSource,
	reviews ReviewSource,
	publisher Publisher,
	topics Topics,
	serviceAddress string,
) *Service {
	return &Service{
		products:        products,
		recommendations: recommendations,
		reviews:         reviews,
		publisher:       publisher,
		topics:          topics,
		serviceAddress:  serviceAddress,
	}
}

// CreateComposite decomposes the aggregate into one product CREATE plus one
// CREATE per recommendation and review, published in that order on the same
// key. It returns once every event is accepted for publish; downstream
// persistence happens asynchronously.
func (s *Service) CreateComposite(ctx context.Context, agg domain.ProductAggregate) error {
	product := domain.Product{
		ProductID: agg.ProductID,
		Name:      agg.Name,
		Weight:    agg.Weight,
	}
	if err := validation.IsValidProduct(product); err != nil {
		return err
	}

	logging.LogDebug("creating composite", logrus.Fields{
		"product_id": agg.ProductID,
		"recs":       len(agg.Recommendations),
		"revs":       len(agg.Reviews),
	})

	if err := s.publisher.Publish(ctx, s.topics.Products, product.ProductID,
		kaf.NewCreateEvent(product.ProductID, product)); err != nil {
		return fmt.Errorf("publish product create: %w", err)
	}

	for _, rs := range agg.Recommendations {
		rec := domain.Recommendation{
			ProductID:        agg.ProductID,
			RecommendationID: rs.RecommendationID,
			Author:           rs.Author,
			Rate:             rs.Rate,
			Content:          rs.Content,
		}
		if err := s.publisher.Publish(ctx, s.topics.Recommendations, agg.ProductID,
			kaf.NewCreateEvent(agg.ProductID, rec)); err != nil {
			return fmt.Errorf("publish recommendation create: %w", err)
		}
	}

	for _, rs := range agg.Reviews {
		rev := domain.Review{
			ProductID: agg.ProductID,
			ReviewID:  rs.ReviewID,
			Author:    rs.Author,
			Subject:   rs.Subject,
			Content:   rs.Content,
		}
		if err := s.publisher.Publish(ctx, s.topics.Reviews, agg.ProductID,
			kaf.NewCreateEvent(agg.ProductID, rev)); err != nil {
			return fmt.Errorf("publish review create: %w", err)
		}
	}

	return nil
}

// GetComposite fans the read out to the three entity services concurrently
// and joins before building the aggregate. Only the product fetch can fail
// the request; recommendation and review failures are absorbed into empty
// lists, an availability-over-completeness tradeoff. A caller cannot tell an
// empty list from an unreachable secondary service.
func (s *Service) GetComposite(ctx context.Context, productID int) (domain.ProductAggregate, error) {
	if err := validation.IsValidProductID(productID); err != nil {
		return domain.ProductAggregate{}, err
	}

	var (
		product domain.Product
		recs    []domain.Recommendation
		revs    []domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := s.products.GetProduct(gctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})

	g.Go(func() error {
		rs, err := s.recommendations.GetRecommendations(gctx, productID)
		if err != nil {
			logging.LogWarn("recommendations fetch failed, returning empty list", logrus.Fields{
				"product_id": productID, "error": err.Error(),
			})
			return nil
		}
		recs = rs
		return nil
	})

	g.Go(func() error {
		rs, err := s.reviews.GetReviews(gctx, productID)
		if err != nil {
			logging.LogWarn("reviews fetch failed, returning empty list", logrus.Fields{
				"product_id": productID, "error": err.Error(),
			})
			return nil
		}
		revs = rs
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.ProductAggregate{}, err
	}

	return s.merge(product, recs, revs), nil
}

// DeleteComposite publishes DELETE commands for all three entity types on
// the product's key. Unconditionally idempotent: deleting an absent product
// is still accepted.
func (s *Service) DeleteComposite(ctx context.Context, productID int) error {
	if err := validation.IsValidProductID(productID); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, s.topics.Products, productID,
		kaf.NewDeleteEvent[domain.Product](productID)); err != nil {
		return fmt.Errorf("publish product delete: %w", err)
	}
	if err := s.publisher.Publish(ctx, s.topics.Recommendations, productID,
		kaf.NewDeleteEvent[domain.Recommendation](productID)); err != nil {
		return fmt.Errorf("publish recommendation delete: %w", err)
	}
	if err := s.publisher.Publish(ctx, s.topics.Reviews, productID,
		kaf.NewDeleteEvent[domain.Review](productID)); err != nil {
		return fmt.Errorf("publish review delete: %w", err)
	}
	return nil
}

func (s *Service) merge(product domain.Product, recs []domain.Recommendation, revs []domain.Review) domain.ProductAggregate {
	recSummaries := make([]domain.RecommendationSummary, 0, len(recs))
	for _, r := range recs {
		recSummaries = append(recSummaries, domain.RecommendationSummary{
			RecommendationID: r.RecommendationID,
			Author:           r.Author,
			Rate:             r.Rate,
			Content:          r.Content,
		})
	}

	revSummaries := make([]domain.ReviewSummary, 0, len(revs))
	for _, r := range revs {
		revSummaries = append(revSummaries, domain.ReviewSummary{
			ReviewID: r.ReviewID,
			Author:   r.Author,
			Subject:  r.Subject,
			Content:  r.Content,
		})
	}

	// Provenance comes from whichever instance actually returned data; an
	// empty list leaves an empty address.
	recAddress := ""
	if len(recs) > 0 {
		recAddress = recs[0].ServiceAddress
	}
	revAddress := ""
	if len(revs) > 0 {
		revAddress = revs[0].ServiceAddress
	}

	return domain.ProductAggregate{
		ProductID:       product.ProductID,
		Name:            product.Name,
		Weight:          product.Weight,
		Recommendations: recSummaries,
		Reviews:         revSummaries,
		ServiceAddresses: domain.ServiceAddresses{
			Composite:      s.serviceAddress,
			Product:        product.ServiceAddress,
			Review:         revAddress,
			Recommendation: recAddress,
		},
	}
}

// Health reports the reachability of the three entity services. A probe
// error marks that service down; it never fails the call itself.
type Health struct {
	ProductUp        bool `json:"productUp"`
	RecommendationUp bool `json:"recommendationUp"`
	ReviewUp         bool `json:"reviewUp"`
}

func (h Health) AllUp() bool { return h.ProductUp && h.RecommendationUp && h.ReviewUp }

func (s *Service) Health(ctx context.Context) Health {
	var h Health
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h.ProductUp = s.products.Health(gctx) == nil
		return nil
	})
	g.Go(func() error {
		h.RecommendationUp = s.recommendations.Health(gctx) == nil
		return nil
	})
	g.Go(func() error {
		h.ReviewUp = s.reviews.Health(gctx) == nil
		return nil
	})

	_ = g.Wait()
	return h
}

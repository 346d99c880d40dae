package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

type recommendationWriter interface {
	CreateRecommendation(ctx context.Context, r domain.Recommendation) (domain.Recommendation, error)
	DeleteRecommendations(ctx context.Context, productID int) error
}

type RecommendationProcessor struct {
	svc recommendationWriter
}

func NewRecommendationProcessor(svc recommendationWriter) *RecommendationProcessor {
	return &RecommendationProcessor{svc: svc}
}

func (p *RecommendationProcessor) Handle(ctx context.Context, msg kaf.Message) error {
	switch msg.Envelope.EventType {
	case kaf.EventCreate:
		if msg.Envelope.Data == nil {
			logging.LogError("dropping recommendation CREATE with null payload", nil, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		var rec domain.Recommendation
		if err := json.Unmarshal(*msg.Envelope.Data, &rec); err != nil {
			logging.LogError("dropping malformed recommendation CREATE", err, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		if _, err := p.svc.CreateRecommendation(ctx, rec); err != nil {
			if terminal(err) {
				logging.LogError("dropping recommendation CREATE", err, logrus.Fields{
					"product_id": rec.ProductID, "recommendation_id": rec.RecommendationID,
				})
				return nil
			}
			return fmt.Errorf("create recommendation %d/%d: %w", rec.ProductID, rec.RecommendationID, err)
		}
		logging.LogInfo("recommendation created from event", logrus.Fields{
			"product_id": rec.ProductID, "recommendation_id": rec.RecommendationID,
		})
		return nil

	case kaf.EventDelete:
		productID := msg.Envelope.Key
		if err := p.svc.DeleteRecommendations(ctx, productID); err != nil {
			if terminal(err) {
				logging.LogError("dropping recommendation DELETE", err, logrus.Fields{"product_id": productID})
				return nil
			}
			return fmt.Errorf("delete recommendations %d: %w", productID, err)
		}
		logging.LogInfo("recommendations deleted from event", logrus.Fields{"product_id": productID})
		return nil

	default:
		err := unknownTypeErr(msg)
		logging.LogError("dropping event", err, logrus.Fields{"key": string(msg.Key)})
		return nil
	}
}

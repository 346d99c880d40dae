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

type reviewWriter interface {
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	DeleteReviews(ctx context.Context, productID int) error
}

type ReviewProcessor struct {
	svc reviewWriter
}

func NewReviewProcessor(svc reviewWriter) *ReviewProcessor {
	return &ReviewProcessor{svc: svc}
}

func (p *ReviewProcessor) Handle(ctx context.Context, msg kaf.Message) error {
	switch msg.Envelope.EventType {
	case kaf.EventCreate:
		if msg.Envelope.Data == nil {
			logging.LogError("dropping review CREATE with null payload", nil, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		var rev domain.Review
		if err := json.Unmarshal(*msg.Envelope.Data, &rev); err != nil {
			logging.LogError("dropping malformed review CREATE", err, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		if _, err := p.svc.CreateReview(ctx, rev); err != nil {
			if terminal(err) {
				logging.LogError("dropping review CREATE", err, logrus.Fields{
					"product_id": rev.ProductID, "review_id": rev.ReviewID,
				})
				return nil
			}
			return fmt.Errorf("create review %d/%d: %w", rev.ProductID, rev.ReviewID, err)
		}
		logging.LogInfo("review created from event", logrus.Fields{
			"product_id": rev.ProductID, "review_id": rev.ReviewID,
		})
		return nil

	case kaf.EventDelete:
		productID := msg.Envelope.Key
		if err := p.svc.DeleteReviews(ctx, productID); err != nil {
			if terminal(err) {
				logging.LogError("dropping review DELETE", err, logrus.Fields{"product_id": productID})
				return nil
			}
			return fmt.Errorf("delete reviews %d: %w", productID, err)
		}
		logging.LogInfo("reviews deleted from event", logrus.Fields{"product_id": productID})
		return nil

	default:
		err := unknownTypeErr(msg)
		logging.LogError("dropping event", err, logrus.Fields{"key": string(msg.Key)})
		return nil
	}
}

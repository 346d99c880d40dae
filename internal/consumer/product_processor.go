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

type productWriter interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID int) error
}

type ProductProcessor struct {
	svc productWriter
}

func NewProductProcessor(svc productWriter) *ProductProcessor {
	return &ProductProcessor{svc: svc}
}

// Handle applies one command event against the product store. CREATE is not
// idempotent: a redelivered CREATE hits the uniqueness constraint and is
// dropped as a duplicate. DELETE is idempotent.
func (p *ProductProcessor) Handle(ctx context.Context, msg kaf.Message) error {
	switch msg.Envelope.EventType {
	case kaf.EventCreate:
		if msg.Envelope.Data == nil {
			logging.LogError("dropping product CREATE with null payload", nil, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		var product domain.Product
		if err := json.Unmarshal(*msg.Envelope.Data, &product); err != nil {
			logging.LogError("dropping malformed product CREATE", err, logrus.Fields{"key": string(msg.Key)})
			return nil
		}
		if _, err := p.svc.CreateProduct(ctx, product); err != nil {
			if terminal(err) {
				logging.LogError("dropping product CREATE", err, logrus.Fields{"product_id": product.ProductID})
				return nil
			}
			return fmt.Errorf("create product %d: %w", product.ProductID, err)
		}
		logging.LogInfo("product created from event", logrus.Fields{"product_id": product.ProductID})
		return nil

	case kaf.EventDelete:
		productID := msg.Envelope.Key
		if err := p.svc.DeleteProduct(ctx, productID); err != nil {
			if terminal(err) {
				logging.LogError("dropping product DELETE", err, logrus.Fields{"product_id": productID})
				return nil
			}
			return fmt.Errorf("delete product %d: %w", productID, err)
		}
		logging.LogInfo("product deleted from event", logrus.Fields{"product_id": productID})
		return nil

	default:
		err := unknownTypeErr(msg)
		logging.LogError("dropping event", err, logrus.Fields{"key": string(msg.Key)})
		return nil
	}
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

type RecommendationRepo struct {
	pool *pgxpool.Pool
}

func NewRecommendationRepo(pool *pgxpool.Pool) *RecommendationRepo {
	return &RecommendationRepo{pool: pool}
}

const qInsertRecommendation = `
INSERT INTO recommendations (product_id, recommendation_id, author, rate, content)
VALUES ($1, $2, $3, $4, $5);
`

const qFindRecommendationsByProductID = `
SELECT product_id, recommendation_id, author, rate, content
FROM recommendations
WHERE product_id = $1
ORDER BY recommendation_id;
`

const qDeleteRecommendationsByProductID = `
DELETE FROM recommendations
WHERE product_id = $1;
`

func (r *RecommendationRepo) CreateRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error) {
	logging.LogDebug("inserting recommendation", logrus.Fields{
		"product_id": rec.ProductID, "recommendation_id": rec.RecommendationID,
	})

	_, err := r.pool.Exec(ctx, qInsertRecommendation,
		rec.ProductID, rec.RecommendationID, rec.Author, rec.Rate, rec.Content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Recommendation{}, fmt.Errorf("%w: Duplicate key, productId: %d, recommendationId: %d",
				app.ErrInvalidInput, rec.ProductID, rec.RecommendationID)
		}
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return domain.Recommendation{}, ctxErr
		}
		logging.LogError("insert recommendation failed", err, logrus.Fields{
			"product_id": rec.ProductID, "recommendation_id": rec.RecommendationID,
		})
		return domain.Recommendation{}, err
	}
	return rec, nil
}

// GetRecommendations returns all recommendations for a product. No rows is a
// normal empty result, not an error.
func (r *RecommendationRepo) GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx, qFindRecommendationsByProductID, productID)
	if err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		logging.LogError("select recommendations failed", err, logrus.Fields{"product_id": productID})
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Recommendation, 0, 8)
	for rows.Next() {
		var rec domain.Recommendation
		if err := rows.Scan(&rec.ProductID, &rec.RecommendationID, &rec.Author, &rec.Rate, &rec.Content); err != nil {
			if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return out, nil
}

func (r *RecommendationRepo) DeleteRecommendations(ctx context.Context, productID int) error {
	tag, err := r.pool.Exec(ctx, qDeleteRecommendationsByProductID, productID)
	if err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return ctxErr
		}
		logging.LogError("delete recommendations failed", err, logrus.Fields{"product_id": productID})
		return err
	}
	logging.LogDebug("recommendations delete done", logrus.Fields{"product_id": productID, "rows": tag.RowsAffected()})
	return nil
}

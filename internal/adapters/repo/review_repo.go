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

type ReviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) *ReviewRepo { return &ReviewRepo{pool: pool} }

const qInsertReview = `
INSERT INTO reviews (product_id, review_id, author, subject, content)
VALUES ($1, $2, $3, $4, $5);
`

const qFindReviewsByProductID = `
SELECT product_id, review_id, author, subject, content
FROM reviews
WHERE product_id = $1
ORDER BY review_id;
`

const qDeleteReviewsByProductID = `
DELETE FROM reviews
WHERE product_id = $1;
`

func (r *ReviewRepo) CreateReview(ctx context.Context, rev domain.Review) (domain.Review, error) {
	logging.LogDebug("inserting review", logrus.Fields{
		"product_id": rev.ProductID, "review_id": rev.ReviewID,
	})

	_, err := r.pool.Exec(ctx, qInsertReview,
		rev.ProductID, rev.ReviewID, rev.Author, rev.Subject, rev.Content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Review{}, fmt.Errorf("%w: Duplicate key, productId: %d, reviewId: %d",
				app.ErrInvalidInput, rev.ProductID, rev.ReviewID)
		}
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return domain.Review{}, ctxErr
		}
		logging.LogError("insert review failed", err, logrus.Fields{
			"product_id": rev.ProductID, "review_id": rev.ReviewID,
		})
		return domain.Review{}, err
	}
	return rev, nil
}

func (r *ReviewRepo) GetReviews(ctx context.Context, productID int) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, qFindReviewsByProductID, productID)
	if err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		logging.LogError("select reviews failed", err, logrus.Fields{"product_id": productID})
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Review, 0, 8)
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ProductID, &rev.ReviewID, &rev.Author, &rev.Subject, &rev.Content); err != nil {
			if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return out, nil
}

func (r *ReviewRepo) DeleteReviews(ctx context.Context, productID int) error {
	tag, err := r.pool.Exec(ctx, qDeleteReviewsByProductID, productID)
	if err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return ctxErr
		}
		logging.LogError("delete reviews failed", err, logrus.Fields{"product_id": productID})
		return err
	}
	logging.LogDebug("reviews delete done", logrus.Fields{"product_id": productID, "rows": tag.RowsAffected()})
	return nil
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

const uniqueViolation = "23505"

type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo { return &ProductRepo{pool: pool} }

const qInsertProduct = `
INSERT INTO products (product_id, product_name, weight)
VALUES ($1, $2, $3);
`

const qFindProductByID = `
SELECT product_id, product_name, weight
FROM products
WHERE product_id = $1;
`

const qDeleteProductByID = `
DELETE FROM products
WHERE product_id = $1;
`

func (r *ProductRepo) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	logging.LogDebug("inserting product", logrus.Fields{"product_id": p.ProductID})

	_, err := r.pool.Exec(ctx, qInsertProduct, p.ProductID, p.Name, p.Weight)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Product{}, fmt.Errorf("%w: Duplicate key, productId: %d", app.ErrInvalidInput, p.ProductID)
		}
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return domain.Product{}, ctxErr
		}
		logging.LogError("insert product failed", err, logrus.Fields{"product_id": p.ProductID})
		return domain.Product{}, err
	}
	return p, nil
}

func (r *ProductRepo) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	var p domain.Product
	err := r.pool.QueryRow(ctx, qFindProductByID, productID).Scan(&p.ProductID, &p.Name, &p.Weight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%w: no product found for productId: %d", app.ErrNotFound, productID)
		}
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return domain.Product{}, ctxErr
		}
		logging.LogError("select product failed", err, logrus.Fields{"product_id": productID})
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes the product if present. Zero matched rows is a
// success, so repeated deletes stay idempotent.
func (r *ProductRepo) DeleteProduct(ctx context.Context, productID int) error {
	tag, err := r.pool.Exec(ctx, qDeleteProductByID, productID)
	if err != nil {
		if ctxErr := classifyCtx(ctx, err); ctxErr != nil {
			return ctxErr
		}
		logging.LogError("delete product failed", err, logrus.Fields{"product_id": productID})
		return err
	}
	logging.LogDebug("product delete done", logrus.Fields{"product_id": productID, "rows": tag.RowsAffected()})
	return nil
}

func classifyCtx(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return app.ErrTimeout
	}
	return nil
}

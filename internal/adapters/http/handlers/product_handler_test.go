package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type fakeProductService struct {
	products map[int]domain.Product
}

func newFakeProductService() *fakeProductService {
	return &fakeProductService{products: map[int]domain.Product{}}
}

func (f *fakeProductService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.ProductID < 1 {
		return domain.Product{}, fmt.Errorf("%w: invalid productId: %d", app.ErrInvalidInput, p.ProductID)
	}
	if _, ok := f.products[p.ProductID]; ok {
		return domain.Product{}, fmt.Errorf("%w: Duplicate key, productId: %d", app.ErrInvalidInput, p.ProductID)
	}
	f.products[p.ProductID] = p
	return p, nil
}

func (f *fakeProductService) GetProduct(ctx context.Context, productID int) (domain.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: no product found for productId: %d", app.ErrNotFound, productID)
	}
	return p, nil
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, productID int) error {
	delete(f.products, productID)
	return nil
}

func newProductRouter(svc productService) *chi.Mux {
	r := chi.NewRouter()
	NewProductHandlers(svc).Routes(r)
	return r
}

func TestProductCreateThenGet(t *testing.T) {
	svc := newFakeProductService()
	r := newProductRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(`{"productId":1,"name":"name","weight":1}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/product/1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "name", p.Name)
}

func TestProductDuplicateCreateIs422(t *testing.T) {
	svc := newFakeProductService()
	r := newProductRouter(svc)

	body := `{"productId":1,"name":"name","weight":1}`
	req := httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var env httpError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Contains(t, env.Message, "Duplicate key")
}

func TestProductGetMissingIs404(t *testing.T) {
	r := newProductRouter(newFakeProductService())

	req := httptest.NewRequest(http.MethodGet, "/product/99", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDeleteMissingIsOK(t *testing.T) {
	r := newProductRouter(newFakeProductService())

	req := httptest.NewRequest(http.MethodDelete, "/product/99", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type productService interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID int) (domain.Product, error)
	DeleteProduct(ctx context.Context, productID int) error
}

type ProductHandlers struct {
	svc productService
}

func NewProductHandlers(svc productService) *ProductHandlers {
	return &ProductHandlers{svc: svc}
}

func (h *ProductHandlers) Routes(r chi.Router) {
	r.Post("/product", h.Create)
	r.Get("/product/{productId}", h.Get)
	r.Delete("/product/{productId}", h.Delete)
}

func (h *ProductHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	stored, err := h.svc.CreateProduct(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *ProductHandlers) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	p, err := h.svc.GetProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type reviewService interface {
	CreateReview(ctx context.Context, rev domain.Review) (domain.Review, error)
	GetReviews(ctx context.Context, productID int) ([]domain.Review, error)
	DeleteReviews(ctx context.Context, productID int) error
}

type ReviewHandlers struct {
	svc reviewService
}

func NewReviewHandlers(svc reviewService) *ReviewHandlers {
	return &ReviewHandlers{svc: svc}
}

func (h *ReviewHandlers) Routes(r chi.Router) {
	r.Post("/review", h.Create)
	r.Get("/review/{productId}", h.List)
	r.Delete("/review/{productId}", h.Delete)
}

func (h *ReviewHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var rev domain.Review
	if err := json.NewDecoder(r.Body).Decode(&rev); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	stored, err := h.svc.CreateReview(r.Context(), rev)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (h *ReviewHandlers) List(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	revs, err := h.svc.GetReviews(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revs)
}

func (h *ReviewHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	if err := h.svc.DeleteReviews(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

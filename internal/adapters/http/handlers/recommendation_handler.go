package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
)

type recommendationService interface {
	CreateRecommendation(ctx context.Context, rec domain.Recommendation) (domain.Recommendation, error)
	GetRecommendations(ctx context.Context, productID int) ([]domain.Recommendation, error)
	DeleteRecommendations(ctx context.Context, productID int) error
}

type RecommendationHandlers struct {
	svc recommendationService
}

func NewRecommendationHandlers(svc recommendationService) *RecommendationHandlers {
	return &RecommendationHandlers{svc: svc}
}

func (h *RecommendationHandlers) Routes(r chi.Router) {
	r.Post("/recommendation", h.Create)
	r.Get("/recommendation/{productId}", h.List)
	r.Delete("/recommendation/{productId}", h.Delete)
}

func (h *RecommendationHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var rec domain.Recommendation
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	stored, err := h.svc.CreateRecommendation(r.Context(), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

// List returns all recommendations for a product; an empty array is a normal
// result, not a 404.
func (h *RecommendationHandlers) List(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	recs, err := h.svc.GetRecommendations(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *RecommendationHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	if err := h.svc.DeleteRecommendations(r.Context(), productID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/reybrally/product-composite-service/internal/composite"
	domain "github.com/reybrally/product-composite-service/internal/domain/catalog"
	"github.com/reybrally/product-composite-service/internal/logging"
)

type compositeService interface {
	CreateComposite(ctx context.Context, agg domain.ProductAggregate) error
	GetComposite(ctx context.Context, productID int) (domain.ProductAggregate, error)
	DeleteComposite(ctx context.Context, productID int) error
	Health(ctx context.Context) composite.Health
}

type CompositeHandlers struct {
	svc compositeService
}

func NewCompositeHandlers(svc compositeService) *CompositeHandlers {
	return &CompositeHandlers{svc: svc}
}

func (h *CompositeHandlers) Routes(r chi.Router) {
	r.Post("/product-composite", h.CreateComposite)
	r.Get("/product-composite/{productId}", h.GetComposite)
	r.Delete("/product-composite/{productId}", h.DeleteComposite)
	r.Get("/health/readiness", h.Readiness)
}

// CreateComposite accepts the aggregate for asynchronous creation. A 202
// means the command events were handed to the publisher, not that the
// entities exist downstream yet.
func (h *CompositeHandlers) CreateComposite(w http.ResponseWriter, r *http.Request) {
	var agg domain.ProductAggregate
	if err := json.NewDecoder(r.Body).Decode(&agg); err != nil {
		writeBadRequest(w, r, "invalid request body")
		return
	}

	if err := h.svc.CreateComposite(r.Context(), agg); err != nil {
		logging.LogError("create composite failed", err, logrus.Fields{"product_id": agg.ProductID})
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *CompositeHandlers) GetComposite(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	agg, err := h.svc.GetComposite(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// DeleteComposite accepts the delete unconditionally; deleting an absent
// product is still a 202.
func (h *CompositeHandlers) DeleteComposite(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		writeBadRequest(w, r, "productId must be an integer")
		return
	}

	if err := h.svc.DeleteComposite(r.Context(), productID); err != nil {
		logging.LogError("delete composite failed", err, logrus.Fields{"product_id": productID})
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Readiness aggregates the downstream health probes. A downstream outage
// shows up as "down" in the body; the probe itself always answers.
func (h *CompositeHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	health := h.svc.Health(r.Context())
	status := http.StatusOK
	if !health.AllUp() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

package handlers

import (
	"net/http"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	Flow *flow.Controller
	Log  *logger.Logger
}

func (h *CatalogHandler) Customers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Log, http.StatusOK, h.Flow.Catalog().Customers())
}

func (h *CatalogHandler) Customer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerID")
	c, ok := h.Flow.Catalog().Customer(id)
	if !ok {
		writeError(w, r, h.Log, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, r, h.Log, http.StatusOK, c)
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.Log, http.StatusOK, h.Flow.Catalog().Products())
}

// CustomerOrders lists the orders committed this session for one customer,
// newest first.
func (h *CatalogHandler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerID")
	if _, ok := h.Flow.Catalog().Customer(id); !ok {
		writeError(w, r, h.Log, http.StatusNotFound, "customer not found")
		return
	}
	orders := h.Flow.CustomerOrders(id)
	if orders == nil {
		orders = []domain.Order{}
	}
	writeJSON(w, r, h.Log, http.StatusOK, orders)
}

package handlers

import (
	"net/http"

	"field-workflow-service/internal/platform/logger"
)

// HealthHandler provides a minimal liveness check endpoint.
type HealthHandler struct {
	Log *logger.Logger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}
	writeJSON(w, r, h.Log, http.StatusOK, res)
}

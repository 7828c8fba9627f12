package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// HealthHandler handles health-check endpoints.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Ping godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Param        action  path      string  true  "Only ping is supported"
// @Success      200     {object}  MessageEnvelope
// @Failure      400     {object}  MessageEnvelope
// @Router       /health-check/{action} [get]
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	if action == "ping" {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
		return
	}
	writeError(w, http.StatusBadRequest, "unknown action")
}

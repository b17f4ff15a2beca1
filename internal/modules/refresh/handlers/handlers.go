// Package handlers provides HTTP handlers for user-initiated price refresh.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles refresh HTTP requests
type Handler struct {
	service *refresh.Service
	log     zerolog.Logger
}

// NewHandler creates a new refresh handler
func NewHandler(service *refresh.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "refresh").Logger(),
	}
}

// RegisterRoutes registers refresh routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/refresh", h.HandleRefresh)
	r.Get("/refresh/last", h.HandleLastResult)
}

// HandleRefresh handles POST /api/refresh.
// The batch completes even if the client disconnects.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	result := h.service.RefreshAll(r.Context(), refresh.TriggerManual)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

// HandleLastResult handles GET /api/refresh/last
func (h *Handler) HandleLastResult(w http.ResponseWriter, r *http.Request) {
	result := h.service.LastResult()
	if result == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "No refresh has completed yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": result})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Package handlers provides HTTP handlers for market indices.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/stockwatch/internal/modules/indices"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market index HTTP requests
type Handler struct {
	service *indices.Service
	log     zerolog.Logger
}

// NewHandler creates a new indices handler
func NewHandler(service *indices.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "indices").Logger(),
	}
}

// RegisterRoutes registers index routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/indices", h.HandleGetIndices)
}

// HandleGetIndices handles GET /api/indices; it fetches on first use
func (h *Handler) HandleGetIndices(w http.ResponseWriter, r *http.Request) {
	latest := h.service.Latest()
	if len(latest) == 0 || r.URL.Query().Get("refresh") == "true" {
		latest = h.service.Refresh(r.Context())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": latest}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

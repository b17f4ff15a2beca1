// Package handlers provides HTTP handlers for analysis reports.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/analytics"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles analytics HTTP requests
type Handler struct {
	service *analytics.Service
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service *analytics.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// HandleGenerateReport handles POST /api/reports
func (h *Handler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	report := h.service.GenerateReport(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": report})
}

// HandleAnalyzeStock handles GET /api/stocks/{symbol}/analysis
func (h *Handler) HandleAnalyzeStock(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.AnalyzeStock(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSymbol):
			h.writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUnknownSymbol):
			h.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrProviderUnavailable):
			h.writeError(w, http.StatusBadGateway, err.Error())
		default:
			h.log.Error().Err(err).Msg("Stock analysis failed")
			h.writeError(w, http.StatusInternalServerError, "Internal error")
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": analysis})
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

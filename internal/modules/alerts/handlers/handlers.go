// Package handlers provides HTTP handlers for price alerts.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CreateRequest is the body of POST /api/alerts
type CreateRequest struct {
	Symbol      string  `json:"symbol" validate:"required,max=12"`
	TargetPrice float64 `json:"target_price" validate:"required,gt=0"`
	Direction   string  `json:"direction" validate:"required"`
}

// Handler handles alert HTTP requests
type Handler struct {
	engine   *alerts.Engine
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new alerts handler
func NewHandler(engine *alerts.Engine, log zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		validate: validator.New(),
		log:      log.With().Str("handler", "alerts").Logger(),
	}
}

// HandleList handles GET /api/alerts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": h.engine.List()})
}

// HandleCreate handles POST /api/alerts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	direction, err := alerts.ParseDirection(req.Direction)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	handle, err := h.engine.Create(req.Symbol, req.TargetPrice, direction)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"data": handle})
}

// HandleReset handles POST /api/alerts/{id}/reset
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	handle, err := h.engine.Reset(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": handle})
}

// HandleDelete handles DELETE /api/alerts/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, alerts.ErrAlertNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, alerts.ErrInvalidTarget),
		errors.Is(err, alerts.ErrInvalidDirection):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Alert operation failed")
		h.writeError(w, http.StatusInternalServerError, "Internal error")
	}
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

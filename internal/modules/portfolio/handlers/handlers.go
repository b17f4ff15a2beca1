// Package handlers provides HTTP handlers for portfolio operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AddHoldingRequest is the body of POST /api/portfolio/holdings
type AddHoldingRequest struct {
	Symbol        string   `json:"symbol" validate:"required,max=12"`
	Shares        int      `json:"shares" validate:"required,gt=0"`
	PurchasePrice *float64 `json:"purchase_price" validate:"required,gte=0"`
}

// Handler handles portfolio HTTP requests
type Handler struct {
	service  *portfolio.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		log:      log.With().Str("handler", "portfolio").Logger(),
	}
}

// HandleGetPortfolio handles GET /api/portfolio
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": h.service.Snapshot(),
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleAddHolding handles POST /api/portfolio/holdings
func (h *Handler) HandleAddHolding(w http.ResponseWriter, r *http.Request) {
	var req AddHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	holding, err := h.service.AddHolding(r.Context(), req.Symbol, req.Shares, *req.PurchasePrice)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": map[string]interface{}{
			"id":             holding.ID(),
			"symbol":         holding.Stock().Symbol(),
			"shares":         holding.Shares(),
			"purchase_price": holding.PurchasePrice(),
			"current_value":  holding.CurrentValue(),
		},
	})
}

// HandleRemoveHolding handles DELETE /api/portfolio/holdings/{symbol}
func (h *Handler) HandleRemoveHolding(w http.ResponseWriter, r *http.Request) {
	removed, err := h.service.RemoveHolding(chi.URLParam(r, "symbol"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if removed == 0 {
		h.writeError(w, http.StatusNotFound, "No holdings for symbol")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"removed": removed},
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidSymbol),
		errors.Is(err, portfolio.ErrInvalidShares),
		errors.Is(err, portfolio.ErrInvalidPurchasePrice):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnknownSymbol):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		h.writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error().Err(err).Msg("Portfolio operation failed")
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

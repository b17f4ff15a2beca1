package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers report and analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/reports", h.HandleGenerateReport)
	r.Get("/stocks/{symbol}/analysis", h.HandleAnalyzeStock)
}

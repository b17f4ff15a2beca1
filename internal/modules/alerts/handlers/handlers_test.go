package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() (*chi.Mux, *alerts.Engine) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	engine := alerts.NewEngine(logger)

	router := chi.NewRouter()
	NewHandler(engine, logger).RegisterRoutes(router)
	return router, engine
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCreate(t *testing.T) {
	router, engine := setupRouter()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"above", `{"symbol":"aapl","target_price":200,"direction":"above"}`, http.StatusCreated},
		{"below mixed case", `{"symbol":"TSLA","target_price":150.5,"direction":"Below"}`, http.StatusCreated},
		{"non-numeric target", `{"symbol":"AAPL","target_price":"lots","direction":"above"}`, http.StatusBadRequest},
		{"zero target", `{"symbol":"AAPL","target_price":0,"direction":"above"}`, http.StatusBadRequest},
		{"bad direction", `{"symbol":"AAPL","target_price":10,"direction":"sideways"}`, http.StatusBadRequest},
		{"missing symbol", `{"target_price":10,"direction":"above"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/alerts/", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	assert.Len(t, engine.List(), 2)
}

func TestHandleListResetDelete(t *testing.T) {
	router, engine := setupRouter()
	handle, err := engine.Create("AAPL", 100, alerts.Above)
	require.NoError(t, err)

	stock := domain.NewStock("AAPL", "")
	stock.Apply(domain.Quote{Price: 101}, time.Now())
	engine.Notify(stock)

	w := do(router, http.MethodGet, "/alerts/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []alerts.Handle `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.True(t, list.Data[0].Triggered)

	w = do(router, http.MethodPost, "/alerts/"+handle.ID+"/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"active"`)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/alerts/"+handle.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/alerts/"+handle.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/alerts/missing/reset", "").Code)
}

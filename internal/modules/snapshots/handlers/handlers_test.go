package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/snapshots"
	"github.com/aristath/stockwatch/internal/modules/watchlist"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleGetSnapshot(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	list := watchlist.New()
	aapl := domain.NewStock("AAPL", "Apple Inc")
	aapl.Apply(domain.Quote{Price: 190}, time.Now())
	list.Add(aapl)

	p := portfolio.New("My Portfolio")
	_, err := p.AddHolding(aapl, 2, 150)
	require.NoError(t, err)

	engine := alerts.NewEngine(logger)
	_, err = engine.Create("AAPL", 200, alerts.Above)
	require.NoError(t, err)

	handler := NewHandler(snapshots.NewService(list, p, engine, nil, nil), logger)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response struct {
		Data snapshots.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Data.Watchlist, 1)
	assert.Equal(t, "AAPL", response.Data.Watchlist[0].Symbol)
	assert.Equal(t, 380.0, response.Data.Portfolio.Performance.CurrentValue)
	require.Len(t, response.Data.Alerts, 1)
	assert.Equal(t, alerts.Active, response.Data.Alerts[0].State)
	assert.Empty(t, response.Data.Indices)
	assert.Nil(t, response.Data.LastRefresh)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quotes struct{}

func (quotes) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if symbol == "XXXX" {
		return domain.Quote{}, domain.ErrUnknownSymbol
	}
	return domain.Quote{Price: 42}, nil
}

type source []*domain.Stock

func (s source) Stocks() []*domain.Stock { return s }

func TestHandleRefresh(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	stocks := source{domain.NewStock("AAPL", ""), domain.NewStock("XXXX", "")}
	svc := refresh.NewService(quotes{}, nil, stocks, nil, alerts.NewEngine(logger), events.NewBus(logger), refresh.NewSpacer(0), logger)

	router := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/refresh/last", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data refresh.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, refresh.TriggerManual, response.Data.Trigger)
	require.Len(t, response.Data.Updated, 1)
	assert.Equal(t, 42.0, response.Data.Updated[0].Stock.Price)
	require.Len(t, response.Data.Failed, 1)
	assert.Equal(t, "XXXX", response.Data.Failed[0].Symbol)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/refresh/last", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/aristath/stockwatch/internal/modules/alerts"
	"github.com/aristath/stockwatch/internal/modules/analytics"
	"github.com/aristath/stockwatch/internal/modules/portfolio"
	"github.com/aristath/stockwatch/internal/modules/refresh"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarket struct{}

func (fakeMarket) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	if symbol == "XXXX" {
		return domain.Quote{}, domain.ErrUnknownSymbol
	}
	return domain.Quote{Price: 110}, nil
}

func (fakeMarket) FetchHistory(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error) {
	if symbol == "XXXX" {
		return nil, domain.ErrUnknownSymbol
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.PricePoint, days)
	for i := range points {
		points[i] = domain.PricePoint{Date: start.AddDate(0, 0, i), Close: 100 + float64(i%3)}
	}
	return points, nil
}

func setupRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	bus := events.NewBus(logger)

	p := portfolio.New("Handlers")
	stock := domain.NewStock("AAPL", "")
	stock.Apply(domain.Quote{Price: 100}, time.Now())
	_, err := p.AddHolding(stock, 10, 100)
	require.NoError(t, err)

	market := fakeMarket{}
	refresher := refresh.NewService(market, nil, nil, p, alerts.NewEngine(logger), bus, refresh.NewSpacer(0), logger)
	svc := analytics.NewService(p, refresher, analytics.NewSyntheticSeries(30), nil, market, bus, logger)

	router := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(router)
	return router
}

func TestHandleGenerateReport(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Data analytics.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1100.0, response.Data.PerformanceMetrics[analytics.MetricCurrentValue])
	assert.Equal(t, 1.2, response.Data.RiskMetrics[analytics.MetricSharpeRatio])
	assert.NotEmpty(t, response.Data.Summary)
}

func TestHandleAnalyzeStock(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/stocks/aapl/analysis", http.StatusOK},
		{"/stocks/XXXX/analysis", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/modules/indices"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingQuotes struct {
	calls int64
}

func (c *countingQuotes) FetchQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	atomic.AddInt64(&c.calls, 1)
	return domain.Quote{Price: 1000}, nil
}

func TestHandleGetIndices_FetchesOnlyWhenEmpty(t *testing.T) {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	quotes := &countingQuotes{}
	router := chi.NewRouter()
	NewHandler(indices.NewService(quotes, indices.Default, logger), logger).RegisterRoutes(router)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/indices", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "NASDAQ Composite")
	}
	assert.Equal(t, int64(3), atomic.LoadInt64(&quotes.calls))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/indices?refresh=true", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(6), atomic.LoadInt64(&quotes.calls))
}

package alerts

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/aristath/stockwatch/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockAt(symbol string, price float64) *domain.Stock {
	s := domain.NewStock(symbol, "")
	s.Apply(domain.Quote{Price: price}, time.Now())
	return s
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Send(n Notification) {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestAlert_AboveFiresOnceAtTarget(t *testing.T) {
	rec := &recordingNotifier{}
	engine := NewEngine(zerolog.Nop(), rec)

	h, err := engine.Create("AAPL", 100, Above)
	require.NoError(t, err)

	assert.Empty(t, engine.Notify(stockAt("AAPL", 99.99)))
	got, _ := engine.Get(h.ID)
	assert.Equal(t, Active, got.State)

	fired := engine.Notify(stockAt("AAPL", 100))
	require.Len(t, fired, 1)
	assert.Equal(t, "AAPL has reached your target price of $100.00. Current price: $100.00", fired[0].Message)

	assert.Empty(t, engine.Notify(stockAt("AAPL", 105)))
	assert.Equal(t, 1, rec.count())

	got, _ = engine.Get(h.ID)
	assert.Equal(t, Triggered, got.State)
	assert.True(t, got.Triggered)
	require.NotNil(t, got.TriggerPrice)
	assert.Equal(t, 100.0, *got.TriggerPrice)
}

func TestAlert_BelowDirection(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	_, err := engine.Create("TSLA", 200, Below)
	require.NoError(t, err)

	assert.Empty(t, engine.Notify(stockAt("TSLA", 200.01)))
	assert.Len(t, engine.Notify(stockAt("TSLA", 200)), 1)
	assert.Empty(t, engine.Notify(stockAt("TSLA", 150)))
}

func TestAlert_IgnoresOtherSymbols(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	_, _ = engine.Create("AAPL", 1, Above)

	assert.Empty(t, engine.Notify(stockAt("MSFT", 1000)))
}

func TestAlert_DuplicatesAreIndependent(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	a, _ := engine.Create("AAPL", 100, Above)
	b, _ := engine.Create("AAPL", 100, Above)
	assert.NotEqual(t, a.ID, b.ID)

	assert.Len(t, engine.Notify(stockAt("AAPL", 120)), 2)
	assert.Len(t, engine.List(), 2)
}

func TestAlert_ResetRearms(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	h, _ := engine.Create("AAPL", 100, Above)

	engine.Notify(stockAt("AAPL", 101))
	reset, err := engine.Reset(h.ID)
	require.NoError(t, err)
	assert.Equal(t, Active, reset.State)
	assert.Nil(t, reset.TriggeredAt)

	assert.Len(t, engine.Notify(stockAt("AAPL", 101)), 1)

	// resetting an active alert is a no-op
	engine.Reset(h.ID)
	again, _ := engine.Reset(h.ID)
	assert.Equal(t, Active, again.State)
}

type countingNotifier struct {
	sent int64
}

func (c *countingNotifier) Send(Notification) { atomic.AddInt64(&c.sent, 1) }

func TestEngine_ConcurrentNotifyFiresExactlyOnce(t *testing.T) {
	notifier := &countingNotifier{}
	engine := NewEngine(zerolog.Nop(), notifier)
	_, _ = engine.Create("AAPL", 100, Above)
	stock := stockAt("AAPL", 150)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.Notify(stock)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&notifier.sent))
}

func TestEngine_UnregisterAndDelete(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	alert, err := NewAlert("AAPL", 10, Above)
	require.NoError(t, err)

	engine.Register(alert)
	engine.Unregister(alert)
	engine.Unregister(alert)
	assert.Empty(t, engine.List())
	assert.Empty(t, engine.Notify(stockAt("AAPL", 20)))

	h, _ := engine.Create("MSFT", 10, Above)
	require.NoError(t, engine.Delete(h.ID))
	assert.True(t, errors.Is(engine.Delete(h.ID), ErrAlertNotFound))

	_, err = engine.Get("missing")
	assert.True(t, errors.Is(err, ErrAlertNotFound))
	_, err = engine.Reset("missing")
	assert.True(t, errors.Is(err, ErrAlertNotFound))
}

func TestNewAlert_Validation(t *testing.T) {
	_, err := NewAlert("AAPL", 0, Above)
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	_, err = NewAlert("AAPL", -1, Below)
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	_, err = NewAlert("AAPL", math.NaN(), Above)
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	_, err = NewAlert("AAPL", math.Inf(1), Above)
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	_, err = NewAlert("AAPL", 10, Direction("sideways"))
	assert.True(t, errors.Is(err, ErrInvalidDirection))

	_, err = NewAlert("", 10, Above)
	assert.True(t, errors.Is(err, domain.ErrInvalidSymbol))

	a, err := NewAlert(" msft ", 10, Below)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", a.Symbol())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" Above ")
	require.NoError(t, err)
	assert.Equal(t, Above, d)

	d, err = ParseDirection("BELOW")
	require.NoError(t, err)
	assert.Equal(t, Below, d)

	_, err = ParseDirection("up")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
}

func TestBusNotifier_PublishesAlertTriggered(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	var got *events.AlertTriggeredData
	bus.Subscribe(events.AlertTriggered, func(e *events.Event) {
		got = e.Data.(*events.AlertTriggeredData)
	})

	engine := NewEngine(zerolog.Nop(), NewBusNotifier(bus), NewLogNotifier(zerolog.Nop()))
	h, _ := engine.Create("GOOGL", 140, Above)
	engine.Notify(stockAt("GOOGL", 141.5))

	require.NotNil(t, got)
	assert.Equal(t, h.ID, got.AlertID)
	assert.Equal(t, "above", got.Direction)
	assert.Equal(t, 141.5, got.Price)
}

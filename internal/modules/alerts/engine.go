package alerts

import (
	"fmt"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/rs/zerolog"
)

// Notifier receives notifications for alerts that just triggered
type Notifier interface {
	Send(n Notification)
}

// Engine is the typed alert registry. Every registered alert is evaluated
// against every refreshed stock passed to Notify.
type Engine struct {
	mu        sync.RWMutex
	alerts    []*Alert
	notifiers []Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewEngine creates an engine that sends notifications to each notifier
func NewEngine(log zerolog.Logger, notifiers ...Notifier) *Engine {
	return &Engine{
		notifiers: notifiers,
		log:       log.With().Str("service", "alerts").Logger(),
		now:       time.Now,
	}
}

// Register adds alert to the registry. Alerts are never deduplicated.
func (e *Engine) Register(alert *Alert) {
	e.mu.Lock()
	e.alerts = append(e.alerts, alert)
	e.mu.Unlock()
}

// Unregister removes alert; absent alerts are ignored
func (e *Engine) Unregister(alert *Alert) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, a := range e.alerts {
		if a == alert {
			e.alerts = append(e.alerts[:i:i], e.alerts[i+1:]...)
			return
		}
	}
}

// Create validates, registers and returns a new active alert
func (e *Engine) Create(symbol string, target float64, direction Direction) (Handle, error) {
	alert, err := NewAlert(symbol, target, direction)
	if err != nil {
		return Handle{}, err
	}
	e.Register(alert)

	e.log.Info().
		Str("alert_id", alert.ID()).
		Str("symbol", alert.Symbol()).
		Float64("target", target).
		Str("direction", string(direction)).
		Msg("Alert created")

	return alert.Handle(), nil
}

func (e *Engine) registered() []*Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Alert(nil), e.alerts...)
}

func (e *Engine) find(id string) (*Alert, error) {
	for _, a := range e.registered() {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
}

// List returns every registered alert in registration order
func (e *Engine) List() []Handle {
	alerts := e.registered()
	out := make([]Handle, len(alerts))
	for i, a := range alerts {
		out[i] = a.Handle()
	}
	return out
}

// Get returns the alert with id
func (e *Engine) Get(id string) (Handle, error) {
	a, err := e.find(id)
	if err != nil {
		return Handle{}, err
	}
	return a.Handle(), nil
}

// Reset re-arms a triggered alert
func (e *Engine) Reset(id string) (Handle, error) {
	a, err := e.find(id)
	if err != nil {
		return Handle{}, err
	}
	if a.Reset() {
		e.log.Info().Str("alert_id", id).Str("symbol", a.Symbol()).Msg("Alert reset")
	}
	return a.Handle(), nil
}

// Delete unregisters the alert with id
func (e *Engine) Delete(id string) error {
	a, err := e.find(id)
	if err != nil {
		return err
	}
	e.Unregister(a)
	e.log.Info().Str("alert_id", id).Msg("Alert deleted")
	return nil
}

// Notify evaluates every registered alert against one refreshed stock and
// returns the notifications for alerts that triggered on this call.
// Notifiers run after evaluation, outside any lock.
func (e *Engine) Notify(stock *domain.Stock) []Notification {
	snap := stock.Snapshot()
	now := e.now()

	var fired []Notification
	for _, a := range e.registered() {
		if n, ok := a.Evaluate(snap, now); ok {
			fired = append(fired, n)
		}
	}

	for _, n := range fired {
		for _, notifier := range e.notifiers {
			notifier.Send(n)
		}
	}

	return fired
}

// Package alerts implements price-threshold alerts and the registry that
// evaluates them on every refreshed stock.
package alerts

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/aristath/stockwatch/internal/domain"
	"github.com/google/uuid"
)

var (
	// ErrInvalidTarget is returned for a non-positive or non-finite target price
	ErrInvalidTarget = errors.New("target price must be a finite value > 0")
	// ErrInvalidDirection is returned for a direction other than above or below
	ErrInvalidDirection = errors.New("direction must be \"above\" or \"below\"")
	// ErrAlertNotFound is returned when no registered alert has the given id
	ErrAlertNotFound = errors.New("alert not found")
)

// Direction selects which side of the target triggers an alert
type Direction string

const (
	// Above triggers when price >= target
	Above Direction = "above"
	// Below triggers when price <= target
	Below Direction = "below"
)

// ParseDirection parses "above" or "below", ignoring case and surrounding space
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Above:
		return Above, nil
	case Below:
		return Below, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
}

// State is an alert's lifecycle state
type State string

const (
	Active    State = "active"
	Triggered State = "triggered"
)

// Notification is emitted once when an alert transitions to triggered
type Notification struct {
	AlertID     string    `json:"alert_id"`
	Symbol      string    `json:"symbol"`
	Direction   Direction `json:"direction"`
	Target      float64   `json:"target"`
	Price       float64   `json:"price"`
	TriggeredAt time.Time `json:"triggered_at"`
	Message     string    `json:"message"`
}

// Message formats the user-facing alert text
func Message(symbol string, target, price float64) string {
	return fmt.Sprintf("%s has reached your target price of $%.2f. Current price: $%.2f", symbol, target, price)
}

// Alert is a standing one-shot price watch
type Alert struct {
	id        string
	symbol    string
	target    float64
	direction Direction
	createdAt time.Time

	mu          sync.Mutex
	state       State
	triggeredAt time.Time
	lastPrice   float64
}

// Handle is a read-only view of an alert
type Handle struct {
	ID           string     `json:"id"`
	Symbol       string     `json:"symbol"`
	Target       float64    `json:"target"`
	Direction    Direction  `json:"direction"`
	State        State      `json:"state"`
	Triggered    bool       `json:"triggered"`
	CreatedAt    time.Time  `json:"created_at"`
	TriggeredAt  *time.Time `json:"triggered_at,omitempty"`
	TriggerPrice *float64   `json:"trigger_price,omitempty"`
}

// NewAlert validates and creates an active alert
func NewAlert(rawSymbol string, target float64, direction Direction) (*Alert, error) {
	symbol, err := domain.NormalizeSymbol(rawSymbol)
	if err != nil {
		return nil, err
	}
	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidTarget, target)
	}
	if direction != Above && direction != Below {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDirection, direction)
	}

	return &Alert{
		id:        uuid.New().String(),
		symbol:    symbol,
		target:    target,
		direction: direction,
		createdAt: time.Now(),
		state:     Active,
	}, nil
}

// ID returns the alert identifier
func (a *Alert) ID() string { return a.id }

// Symbol returns the watched symbol
func (a *Alert) Symbol() string { return a.symbol }

// State returns the current state
func (a *Alert) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Alert) crossed(price float64) bool {
	if a.direction == Above {
		return price >= a.target
	}
	return price <= a.target
}

// Evaluate checks stock against the threshold and, if the alert is active and
// the threshold is crossed, transitions it to triggered and returns the
// notification. The check and the transition happen under one lock.
func (a *Alert) Evaluate(stock domain.StockSnapshot, now time.Time) (Notification, bool) {
	if stock.Symbol != a.symbol {
		return Notification{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Active || !a.crossed(stock.Price) {
		return Notification{}, false
	}

	a.state = Triggered
	a.triggeredAt = now
	a.lastPrice = stock.Price

	return Notification{
		AlertID:     a.id,
		Symbol:      a.symbol,
		Direction:   a.direction,
		Target:      a.target,
		Price:       stock.Price,
		TriggeredAt: now,
		Message:     Message(a.symbol, a.target, stock.Price),
	}, true
}

// Reset returns a triggered alert to active and reports whether it changed
func (a *Alert) Reset() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != Triggered {
		return false
	}
	a.state = Active
	a.triggeredAt = time.Time{}
	a.lastPrice = 0
	return true
}

// Handle returns a read-only view of the alert
func (a *Alert) Handle() Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	h := Handle{
		ID:        a.id,
		Symbol:    a.symbol,
		Target:    a.target,
		Direction: a.direction,
		State:     a.state,
		Triggered: a.state == Triggered,
		CreatedAt: a.createdAt,
	}
	if a.state == Triggered {
		at, price := a.triggeredAt, a.lastPrice
		h.TriggeredAt = &at
		h.TriggerPrice = &price
	}
	return h
}

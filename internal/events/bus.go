// Package events provides the in-process event bus used to publish refresh,
// alert and ledger changes to subscribers.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	PriceUpdated     EventType = "PRICE_UPDATED"
	RefreshCompleted EventType = "REFRESH_COMPLETED"
	AlertTriggered   EventType = "ALERT_TRIGGERED"
	HoldingAdded     EventType = "HOLDING_ADDED"
	HoldingRemoved   EventType = "HOLDING_REMOVED"
	WatchlistChanged EventType = "WATCHLIST_CHANGED"
	ReportGenerated  EventType = "REPORT_GENERATED"
	ErrorOccurred    EventType = "ERROR_OCCURRED"
)

// AllTypes lists every event type the bus carries
var AllTypes = []EventType{
	PriceUpdated,
	RefreshCompleted,
	AlertTriggered,
	HoldingAdded,
	HoldingRemoved,
	WatchlistChanged,
	ReportGenerated,
	ErrorOccurred,
}

// Event represents a system event
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data"`
	Module    string    `json:"module"`
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(*Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus fans events out to subscribers by type
type Bus struct {
	mu     sync.RWMutex
	subs   map[EventType][]subscription
	nextID uint64
	log    zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subs: make(map[EventType][]subscription),
		log:  log.With().Str("service", "events").Logger(),
	}
}

// Subscribe registers handler for eventType and returns a func that removes it
func (b *Bus) Subscribe(eventType EventType, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[eventType] = append(b.subs[eventType], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventType, id) })
	}
}

func (b *Bus) unsubscribe(eventType EventType, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[eventType]
	for i, s := range subs {
		if s.id == id {
			b.subs[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit publishes data under its own event type
func (b *Bus) Emit(module string, data EventData) {
	event := &Event{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	if b.log.GetLevel() <= zerolog.DebugLevel {
		eventJSON, err := json.Marshal(event)
		if err == nil {
			b.log.Debug().
				Str("event_type", string(event.Type)).
				Str("module", module).
				RawJSON("event", eventJSON).
				Msg("Event emitted")
		}
	}

	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[event.Type]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// EmitError emits an ERROR_OCCURRED event
func (b *Bus) EmitError(module string, err error, context map[string]interface{}) {
	b.Emit(module, &ErrorEventData{
		Error:   err.Error(),
		Context: context,
	})
}

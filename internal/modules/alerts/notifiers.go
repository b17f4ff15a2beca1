package alerts

import (
	"github.com/aristath/stockwatch/internal/events"
	"github.com/rs/zerolog"
)

// LogNotifier logs each triggered alert
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a notifier that writes to log
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "alert_notifier").Logger()}
}

// Send logs n at info level
func (l *LogNotifier) Send(n Notification) {
	l.log.Info().
		Str("alert_id", n.AlertID).
		Str("symbol", n.Symbol).
		Float64("target", n.Target).
		Float64("price", n.Price).
		Msg(n.Message)
}

// BusNotifier publishes ALERT_TRIGGERED events
type BusNotifier struct {
	bus *events.Bus
}

// NewBusNotifier creates a notifier that publishes to bus
func NewBusNotifier(bus *events.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

// Send publishes n
func (b *BusNotifier) Send(n Notification) {
	b.bus.Emit("alerts", &events.AlertTriggeredData{
		AlertID:     n.AlertID,
		Symbol:      n.Symbol,
		Direction:   string(n.Direction),
		Target:      n.Target,
		Price:       n.Price,
		Message:     n.Message,
		TriggeredAt: n.TriggeredAt,
	})
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/aristath/stockwatch/internal/events"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// EventsSocketHandler pushes bus events to WebSocket clients
type EventsSocketHandler struct {
	bus          *events.Bus
	log          zerolog.Logger
	writeTimeout time.Duration
}

// NewEventsSocketHandler creates a new WebSocket events handler
func NewEventsSocketHandler(bus *events.Bus, log zerolog.Logger) *EventsSocketHandler {
	return &EventsSocketHandler{
		bus:          bus,
		log:          log.With().Str("component", "events_ws").Logger(),
		writeTimeout: 5 * time.Second,
	}
}

// ServeHTTP handles GET /api/events/ws. The connection is write-only;
// anything the client sends is discarded.
func (h *EventsSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	eventChan, unsubscribe := subscribe(h.bus, parseTypes(r.URL.Query().Get("types")), h.log)
	defer unsubscribe()

	// CloseRead's context ends when the client goes away
	ctx := conn.CloseRead(r.Context())

	h.log.Info().Msg("Client connected to event socket")

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event socket")
			conn.Close(websocket.StatusNormalClosure, "")
			return

		case event := <-eventChan:
			if err := h.write(ctx, conn, event); err != nil {
				status := websocket.CloseStatus(err)
				if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
					h.log.Warn().Err(err).Msg("Failed to write event")
				}
				return
			}
		}
	}
}

func (h *EventsSocketHandler) write(ctx context.Context, conn *websocket.Conn, event *events.Event) error {
	writeCtx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(writeCtx, conn, event)
}

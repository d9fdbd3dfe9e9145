package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleEvents streams change events to a websocket client until it
// disconnects.
// GET /ws/events
func (h *Handler) HandleEvents(c echo.Context) error {
	// Subscribe before the handshake completes so no event written after the
	// client connects is missed.
	events, cancel := h.hub.Subscribe()
	defer cancel()

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return nil
	}
	defer ws.Close()
	slog.Info("event stream client connected", "remote", c.RealIP())

	// Reads only detect the disconnect; clients send nothing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request().Context()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(ev); err != nil {
				slog.Warn("failed to write event", "error", err)
				return nil
			}
		case <-gone:
			slog.Info("event stream client disconnected", "remote", c.RealIP())
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

package controller

import (
	"net/http"
	"time"

	"tienda-joyas/app/middleware"
	"tienda-joyas/events"
	"tienda-joyas/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
	wsBuffer     = 32
)

// EventsController streams bus events to the browser over a websocket
type EventsController struct {
	bus      events.Subscriber
	upgrader websocket.Upgrader
}

// NewEventsController creates a new EventsController. checkOrigin may be nil to
// accept same-host requests only.
func NewEventsController(bus events.Subscriber, checkOrigin func(r *http.Request) bool) *EventsController {
	return &EventsController{
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// Stream handles GET /ws. The client receives global catalog events and the
// cart and toast events of its own session.
func (c *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sessionID := middleware.SessionID(r.Context())

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := c.bus.Subscribe(wsBuffer, events.ForSession(sessionID))
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(evt); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

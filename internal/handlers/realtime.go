package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/realtime"
)

const (
	wsReadLimit     = 64 * 1024
	wsReadDeadline  = 60 * time.Second
	wsWriteDeadline = 5 * time.Second
	wsPingInterval  = 30 * time.Second
)

type RealtimeHandler struct {
	log         *logger.Logger
	hub         *realtime.Hub
	coordinator *realtime.Coordinator
	upgrader    websocket.Upgrader
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub, coordinator *realtime.Coordinator) *RealtimeHandler {
	return &RealtimeHandler{
		log:         log.With("handler", "RealtimeHandler"),
		hub:         hub,
		coordinator: coordinator,
		upgrader: websocket.Upgrader{
			// CORS is enforced on the HTTP layer; the upgrade accepts any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the connection and runs it until either side goes away. One
// goroutine reads client events and dispatches them to the coordinator; the
// handler goroutine drains the client's outbound queue and pings.
func (h *RealtimeHandler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	client := h.hub.NewClient()
	defer h.coordinator.Disconnect(client)

	ctx := c.Request.Context()
	done := make(chan struct{})

	go func() {
		defer close(done)
		conn.SetReadLimit(wsReadLimit)
		_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(wsReadDeadline))
			return nil
		})
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev realtime.ClientEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				h.log.Warn("dropping malformed client event", "client_id", client.ID, "error", err)
				continue
			}
			switch ev.Event {
			case realtime.EventJoinTicket:
				h.coordinator.HandleJoin(ctx, client, ev)
			case realtime.EventUserMessage:
				h.coordinator.HandleUserMessage(ctx, client, ev)
			case realtime.EventAgentMessage:
				h.coordinator.HandleAgentMessage(ctx, client, ev)
			default:
				h.log.Debug("ignoring unknown client event", "client_id", client.ID, "event", ev.Event)
			}
		}
	}()

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case event := <-client.Outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteDeadline))
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/driffle/genie-backend/internal/platform/logger"
)

// Client is one realtime connection. Outbound is drained by the transport; a
// full buffer drops the event rather than blocking the hub. The channel is
// never closed: the transport loop owns connection teardown, and a late
// dispatch racing RemoveClient must not panic the process.
type Client struct {
	ID       uuid.UUID
	Outbound chan ServerEvent

	rooms   map[string]bool
	removed bool
}

type sessionKey struct {
	clientID uuid.UUID
	ticketID string
}

// Hub groups connections into rooms keyed by ticketID and owns the
// per-connection scripted-intake step counters. Counters are keyed by
// (connection, ticket) and torn down with the connection.
type Hub struct {
	mu     sync.RWMutex
	log    *logger.Logger
	rooms  map[string]map[*Client]bool
	intake map[sessionKey]int
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:    log.With("component", "RealtimeHub"),
		rooms:  make(map[string]map[*Client]bool),
		intake: make(map[sessionKey]int),
	}
}

func (h *Hub) NewClient() *Client {
	return &Client{
		ID:       uuid.New(),
		Outbound: make(chan ServerEvent, 32),
		rooms:    make(map[string]bool),
	}
}

func (h *Hub) Join(client *Client, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ticketID == "" {
		return
	}
	client.rooms[ticketID] = true

	members, ok := h.rooms[ticketID]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[ticketID] = members
	}
	members[client] = true

	h.log.Debug("client joined room", "client_id", client.ID, "ticket_id", ticketID)
}

// RemoveClient drops the client from every room and tears down its intake
// sessions. Outbound stays open; Send and Broadcast stop delivering to a
// removed client instead.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ticketID := range client.rooms {
		if members, ok := h.rooms[ticketID]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, ticketID)
			}
		}
		delete(h.intake, sessionKey{clientID: client.ID, ticketID: ticketID})
	}
	client.rooms = make(map[string]bool)
	client.removed = true

	h.log.Debug("client removed", "client_id", client.ID)
}

// Broadcast delivers an event to every member of a room. Per-room order is
// call order; slow consumers are skipped, not waited on.
func (h *Hub) Broadcast(ticketID string, event ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[ticketID] {
		select {
		case client.Outbound <- event:
		default:
			h.log.Warn("dropping event for slow client", "client_id", client.ID, "ticket_id", ticketID, "event", event.Event)
		}
	}
}

// Send delivers an event privately to one client. Events for a removed client
// are dropped.
func (h *Hub) Send(client *Client, event ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if client.removed {
		h.log.Debug("dropping event for removed client", "client_id", client.ID, "event", event.Event)
		return
	}
	select {
	case client.Outbound <- event:
	default:
		h.log.Warn("dropping private event for slow client", "client_id", client.ID, "event", event.Event)
	}
}

// ResetIntakeStep initializes the scripted-intake counter for a connection on
// a ticket.
func (h *Hub) ResetIntakeStep(client *Client, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.intake[sessionKey{clientID: client.ID, ticketID: ticketID}] = 0
}

// IntakeStep returns the current scripted-intake step for a connection on a
// ticket. Unknown sessions start at 0.
func (h *Hub) IntakeStep(client *Client, ticketID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.intake[sessionKey{clientID: client.ID, ticketID: ticketID}]
}

func (h *Hub) AdvanceIntakeStep(client *Client, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.intake[sessionKey{clientID: client.ID, ticketID: ticketID}]++
}

package bus

import (
	"context"

	"github.com/driffle/genie-backend/internal/realtime"
)

// RoomEvent is what travels between instances: a server event addressed to a
// ticket room.
type RoomEvent struct {
	TicketID string              `json:"ticketId"`
	Event    realtime.ServerEvent `json:"event"`
}

// Bus fans room events out across service instances. When no bus is
// configured the hub broadcasts locally only.
type Bus interface {
	Publish(ctx context.Context, msg RoomEvent) error
	StartForwarder(ctx context.Context, onMsg func(m RoomEvent)) error
	Close() error
}

package realtime

import "github.com/driffle/genie-backend/internal/types"

// Wire events for the realtime channel. Inbound names match what clients
// send; outbound names are what the server emits.
const (
	EventJoinTicket   = "join_ticket"
	EventUserMessage  = "user_message"
	EventAgentMessage = "agent_message"

	EventJoinFailed  = "join_failed"
	EventChatHistory = "chat_history"
	EventNewMessage  = "new_message"
)

type ClientEvent struct {
	Event string `json:"event"`

	// join_ticket
	UserType string `json:"userType,omitempty"`

	// shared
	TicketID string `json:"ticketId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Message  string `json:"message,omitempty"`

	// agent_message
	AgentID   string `json:"agentId,omitempty"`
	AgentName string `json:"agentName,omitempty"`
}

type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type JoinFailedData struct {
	Reason string `json:"reason"`
}

type MessagesData struct {
	TicketID string               `json:"ticketId"`
	Messages []*types.ChatMessage `json:"messages"`
}

func NewMessageEvent(ticketID string, message *types.ChatMessage) ServerEvent {
	return ServerEvent{
		Event: EventNewMessage,
		Data:  MessagesData{TicketID: ticketID, Messages: []*types.ChatMessage{message}},
	}
}

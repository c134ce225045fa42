package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/driffle/genie-backend/internal/clients/genai"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/repos"
	"github.com/driffle/genie-backend/internal/types"
)

// NewTicketID generates a fresh ticket identity: TKT-<unix millis>-<random 8>.
// The random suffix keeps concurrent creations collision-free within the same
// millisecond.
func NewTicketID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TKT-%d-%s", now.UnixMilli(), suffix)
}

type CreateTicketInput struct {
	UserID         string
	Subject        string
	InitialMessage string
	CustomerEmail  string
	CustomerName   string
}

type UserMessageResult struct {
	UserMessage    *types.ChatMessage `json:"-"`
	AIMessage      *types.ChatMessage `json:"-"`
	Response       string             `json:"response"`
	ShouldEscalate bool               `json:"shouldEscalate"`
}

type TicketDetails struct {
	Ticket       *types.Ticket        `json:"ticket"`
	ChatHistory  []*types.ChatMessage `json:"chatHistory"`
	Orders       []*types.Order       `json:"orders"`
	ToneAnalysis ToneResult           `json:"toneAnalysis"`
}

// ConversationService owns the per-ticket lifecycle: creation, message
// ingestion from every actor, escalation, and the status transitions that
// follow from them. It is the only component that writes ticket status.
type ConversationService interface {
	CreateTicket(ctx context.Context, input CreateTicketInput) (*types.Ticket, string, error)

	// HandleUserMessage persists the user message, evaluates escalation over the
	// recent window, generates and persists an AI reply, and escalates the
	// ticket when a trigger fires. The caller must already have verified ticket
	// ownership.
	HandleUserMessage(ctx context.Context, ticketID, userID, text string) (*UserMessageResult, error)

	// HandleAgentMessage persists the agent message and claims the ticket for
	// the acting agent (last agent to write wins). When requestSuggestion is
	// set, a suggested reply is returned alongside; it is never persisted.
	HandleAgentMessage(ctx context.Context, ticketID, agentID, agentName, text string, requestSuggestion bool) (*types.ChatMessage, string, error)

	// SaveMessage appends a message without any engine side effects; the
	// realtime coordinator uses it for scripted-intake traffic.
	SaveMessage(ctx context.Context, message *types.ChatMessage) error

	GetTicket(ctx context.Context, ticketID string) (*types.Ticket, error)
	VerifyTicketOwner(ctx context.Context, ticketID, userID string) (*types.Ticket, error)
	// GetChatHistory returns the ticket's messages oldest first. A limit of
	// zero or less returns the full conversation; a room join must replay
	// everything.
	GetChatHistory(ctx context.Context, ticketID string, limit int) ([]*types.ChatMessage, error)
	ListUserTickets(ctx context.Context, userID string) ([]*types.Ticket, error)
	ListTickets(ctx context.Context, filter repos.TicketFilter) ([]*types.Ticket, error)
	GetTicketDetails(ctx context.Context, ticketID string) (*TicketDetails, error)

	// MarkPendingAgent is the scripted intake's final act: bot control ends and
	// the ticket waits for a human. It only moves bot-owned tickets.
	MarkPendingAgent(ctx context.Context, ticketID string) error

	// ResetForDemo forces a ticket back to open and wipes its chat log. Only
	// reachable behind the demo-reset feature flag.
	ResetForDemo(ctx context.Context, ticketID string) error
}

type conversationService struct {
	log      *logger.Logger
	ai       genai.Client
	insight  InsightService
	tickets  repos.TicketRepo
	messages repos.ChatMessageRepo
	orders   repos.OrderRepo
	now      func() time.Time
}

func NewConversationService(
	log *logger.Logger,
	ai genai.Client,
	insight InsightService,
	tickets repos.TicketRepo,
	messages repos.ChatMessageRepo,
	orders repos.OrderRepo,
) ConversationService {
	return &conversationService{
		log:      log.With("service", "ConversationService"),
		ai:       ai,
		insight:  insight,
		tickets:  tickets,
		messages: messages,
		orders:   orders,
		now:      time.Now,
	}
}

func (s *conversationService) newMessage(ticketID string, sender types.SenderType, senderID, senderName, content string) *types.ChatMessage {
	return &types.ChatMessage{
		MessageID:   uuid.NewString(),
		TicketID:    ticketID,
		SenderType:  sender,
		SenderID:    senderID,
		SenderName:  senderName,
		Content:     content,
		MessageType: types.MessageTypeText,
		Timestamp:   s.now(),
	}
}

// generateReply asks the model for the next bot utterance. Capability failures
// degrade to a fixed apology; the conversation never blocks on an AI outage.
func (s *conversationService) generateReply(ctx context.Context, ticket *types.Ticket, history []*types.ChatMessage, currentMessage string) string {
	reply, err := s.ai.GenerateText(ctx,
		supportReplyPrompt(ticket, history, currentMessage),
		[]genai.Turn{{Role: genai.RoleUser, Text: currentMessage}},
	)
	if err != nil {
		s.log.Warn("AI reply generation failed, using apology fallback", "ticket_id", ticket.TicketID, "error", err)
		return apologyFallback
	}
	return reply
}

func (s *conversationService) CreateTicket(ctx context.Context, input CreateTicketInput) (*types.Ticket, string, error) {
	ticket := &types.Ticket{
		TicketID:      NewTicketID(s.now()),
		UserID:        input.UserID,
		Subject:       input.Subject,
		Status:        types.TicketStatusOpen,
		Priority:      types.TicketPriorityMedium,
		CustomerEmail: input.CustomerEmail,
		CustomerName:  input.CustomerName,
	}
	if err := s.tickets.Create(ctx, nil, ticket); err != nil {
		return nil, "", err
	}

	initial := s.newMessage(ticket.TicketID, types.SenderUser, input.UserID, "", input.InitialMessage)
	if err := s.messages.Create(ctx, nil, initial); err != nil {
		return nil, "", err
	}

	// No rollback on later failures: ticket and initial message survive even if
	// the AI reply cannot be persisted.
	reply := s.generateReply(ctx, ticket, []*types.ChatMessage{initial}, input.InitialMessage)
	aiMessage := s.newMessage(ticket.TicketID, types.SenderAIAgent, "ai_agent", "AI Assistant", reply)
	if err := s.messages.Create(ctx, nil, aiMessage); err != nil {
		return nil, "", err
	}

	return ticket, reply, nil
}

func (s *conversationService) HandleUserMessage(ctx context.Context, ticketID, userID, text string) (*UserMessageResult, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}

	userMessage := s.newMessage(ticketID, types.SenderUser, userID, "", text)
	if err := s.messages.Create(ctx, nil, userMessage); err != nil {
		return nil, err
	}

	window, err := s.messages.ListRecentByTicket(ctx, nil, ticketID, EscalationWindow)
	if err != nil {
		return nil, err
	}

	tone := s.insight.AnalyzeTone(ctx, window)
	escalate := ShouldEscalate(window, tone)

	reply := s.generateReply(ctx, ticket, window, text)
	aiMessage := s.newMessage(ticketID, types.SenderAIAgent, "ai_agent", "AI Assistant", reply)
	if err := s.messages.Create(ctx, nil, aiMessage); err != nil {
		return nil, err
	}

	if escalate {
		if err := s.escalateTicket(ctx, ticket); err != nil {
			return nil, err
		}
	}

	return &UserMessageResult{
		UserMessage:    userMessage,
		AIMessage:      aiMessage,
		Response:       reply,
		ShouldEscalate: escalate,
	}, nil
}

// escalateTicket hands bot-owned tickets to the agent queue and stamps the
// escalation reason. Existing metadata keys are preserved. A ticket a human
// already owns keeps its status; only the metadata stamp is refreshed.
func (s *conversationService) escalateTicket(ctx context.Context, ticket *types.Ticket) error {
	metadata := datatypes.JSONMap{}
	for k, v := range ticket.Metadata {
		metadata[k] = v
	}
	metadata["escalatedBy"] = "ai_agent"
	metadata["escalationReason"] = "Complex issue or negative sentiment detected"

	changes := map[string]interface{}{"metadata": metadata}
	if types.OwnershipOf(ticket.Status) == types.OwnershipBot {
		changes["status"] = types.TicketStatusAssigned
	}
	return s.tickets.UpdateByTicketID(ctx, nil, ticket.TicketID, changes)
}

func (s *conversationService) HandleAgentMessage(ctx context.Context, ticketID, agentID, agentName, text string, requestSuggestion bool) (*types.ChatMessage, string, error) {
	message := s.newMessage(ticketID, types.SenderHumanAgent, agentID, agentName, text)
	if err := s.messages.Create(ctx, nil, message); err != nil {
		return nil, "", err
	}

	if err := s.tickets.UpdateByTicketID(ctx, nil, ticketID, map[string]interface{}{
		"status":              types.TicketStatusInProgress,
		"assigned_agent_id":   agentID,
		"assigned_agent_name": agentName,
		"assigned_at":         s.now(),
	}); err != nil {
		return nil, "", err
	}

	var suggestion string
	if requestSuggestion {
		suggestion = s.insight.SuggestResponse(ctx, ticketID, text)
	}
	return message, suggestion, nil
}

func (s *conversationService) SaveMessage(ctx context.Context, message *types.ChatMessage) error {
	if message.MessageID == "" {
		message.MessageID = uuid.NewString()
	}
	if message.MessageType == "" {
		message.MessageType = types.MessageTypeText
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = s.now()
	}
	return s.messages.Create(ctx, nil, message)
}

func (s *conversationService) GetTicket(ctx context.Context, ticketID string) (*types.Ticket, error) {
	return s.tickets.GetByTicketID(ctx, nil, ticketID)
}

func (s *conversationService) VerifyTicketOwner(ctx context.Context, ticketID, userID string) (*types.Ticket, error) {
	return s.tickets.GetByTicketIDAndUser(ctx, nil, ticketID, userID)
}

func (s *conversationService) GetChatHistory(ctx context.Context, ticketID string, limit int) ([]*types.ChatMessage, error) {
	return s.messages.ListByTicket(ctx, nil, ticketID, limit)
}

func (s *conversationService) ListUserTickets(ctx context.Context, userID string) ([]*types.Ticket, error) {
	return s.tickets.ListByUser(ctx, nil, userID)
}

func (s *conversationService) ListTickets(ctx context.Context, filter repos.TicketFilter) ([]*types.Ticket, error) {
	return s.tickets.List(ctx, nil, filter, 100)
}

func (s *conversationService) GetTicketDetails(ctx context.Context, ticketID string) (*TicketDetails, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, nil, ticketID)
	if err != nil {
		return nil, err
	}
	history, err := s.messages.ListByTicket(ctx, nil, ticketID, 0)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListRecentByUser(ctx, nil, ticket.UserID, 10)
	if err != nil {
		return nil, err
	}
	return &TicketDetails{
		Ticket:       ticket,
		ChatHistory:  history,
		Orders:       orders,
		ToneAnalysis: s.insight.AnalyzeTone(ctx, history),
	}, nil
}

func (s *conversationService) MarkPendingAgent(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetByTicketID(ctx, nil, ticketID)
	if err != nil {
		return err
	}
	if types.OwnershipOf(ticket.Status) != types.OwnershipBot {
		return nil
	}
	return s.tickets.UpdateByTicketID(ctx, nil, ticketID, map[string]interface{}{
		"status": types.TicketStatusPendingAgent,
	})
}

func (s *conversationService) ResetForDemo(ctx context.Context, ticketID string) error {
	if err := s.tickets.UpdateByTicketID(ctx, nil, ticketID, map[string]interface{}{
		"status": types.TicketStatusOpen,
	}); err != nil {
		return err
	}
	return s.messages.DeleteByTicket(ctx, nil, ticketID)
}

package realtime

import (
	"context"
	"fmt"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/services"
	"github.com/driffle/genie-backend/internal/types"
)

const botSenderName = "Genie"

// Intake modes decide which bot flow drives a ticket that is still bot-owned
// on the realtime channel: the fixed scripted dialogue or the AI-generated
// reply path. The two flows are never active for the same message.
const (
	IntakeModeScripted = "scripted"
	IntakeModeAI       = "ai"
)

type CoordinatorConfig struct {
	IntakeMode      string
	DemoResetOnJoin bool
}

// Coordinator relays every persisted message to all room subscribers and runs
// the scripted intake dialogue. Ticket status changes are delegated to the
// conversation engine; the socket layer never writes status itself.
type Coordinator struct {
	log     *logger.Logger
	hub     *Hub
	convo   services.ConversationService
	cfg     CoordinatorConfig
	publish func(ctx context.Context, ticketID string, event ServerEvent) error
}

func NewCoordinator(log *logger.Logger, hub *Hub, convo services.ConversationService, cfg CoordinatorConfig) *Coordinator {
	if cfg.IntakeMode != IntakeModeAI {
		cfg.IntakeMode = IntakeModeScripted
	}
	return &Coordinator{
		log:   log.With("component", "Coordinator"),
		hub:   hub,
		convo: convo,
		cfg:   cfg,
	}
}

// SetPublisher routes room broadcasts through an external bus (cross-instance
// fan-out). The bus forwarder is expected to feed Hub.Broadcast on every
// instance, including this one.
func (c *Coordinator) SetPublisher(publish func(ctx context.Context, ticketID string, event ServerEvent) error) {
	c.publish = publish
}

func (c *Coordinator) broadcast(ctx context.Context, ticketID string, event ServerEvent) {
	if c.publish != nil {
		err := c.publish(ctx, ticketID, event)
		if err == nil {
			return
		}
		c.log.Warn("bus publish failed, broadcasting locally", "ticket_id", ticketID, "error", err)
	}
	c.hub.Broadcast(ticketID, event)
}

func (c *Coordinator) saveAndBroadcast(ctx context.Context, message *types.ChatMessage) error {
	if err := c.convo.SaveMessage(ctx, message); err != nil {
		return err
	}
	c.broadcast(ctx, message.TicketID, NewMessageEvent(message.TicketID, message))
	return nil
}

func botMessage(ticketID, content string) *types.ChatMessage {
	return &types.ChatMessage{
		TicketID:    ticketID,
		SenderType:  types.SenderAIAgent,
		SenderID:    "ai_agent",
		SenderName:  botSenderName,
		Content:     content,
		MessageType: types.MessageTypeText,
	}
}

func (c *Coordinator) HandleJoin(ctx context.Context, client *Client, ev ClientEvent) {
	if ev.TicketID == "" {
		c.hub.Send(client, ServerEvent{Event: EventJoinFailed, Data: JoinFailedData{Reason: "Ticket ID is required."}})
		return
	}

	if ev.UserType == "user" && c.cfg.DemoResetOnJoin {
		// Demo-only destructive path: force the ticket open and wipe its chat
		// log so every user connection replays the intake from scratch.
		c.log.Warn("DEMO MODE: resetting ticket for user connection", "ticket_id", ev.TicketID)
		if err := c.convo.ResetForDemo(ctx, ev.TicketID); err != nil {
			c.log.Error("demo reset failed", "ticket_id", ev.TicketID, "error", err)
		}
	}

	ticket, err := c.convo.GetTicket(ctx, ev.TicketID)
	if err != nil {
		c.hub.Send(client, ServerEvent{Event: EventJoinFailed, Data: JoinFailedData{Reason: "Ticket not found."}})
		return
	}

	if ev.UserType == "user" && ticket.UserID != ev.UserID {
		c.hub.Send(client, ServerEvent{Event: EventJoinFailed, Data: JoinFailedData{Reason: "Access denied."}})
		return
	}

	c.hub.Join(client, ev.TicketID)
	c.log.Debug("participant joined room", "ticket_id", ev.TicketID, "user_type", ev.UserType)

	history, err := c.convo.GetChatHistory(ctx, ev.TicketID, 0)
	if err != nil {
		c.log.Error("could not load chat history for join", "ticket_id", ev.TicketID, "error", err)
		history = nil
	}
	// History goes privately to the joining connection only.
	c.hub.Send(client, ServerEvent{Event: EventChatHistory, Data: MessagesData{TicketID: ev.TicketID, Messages: history}})

	if ev.UserType == "user" && ticket.Status == types.TicketStatusOpen && len(history) == 0 && c.cfg.IntakeMode == IntakeModeScripted {
		welcome := botMessage(ev.TicketID, fmt.Sprintf("Hello %s! I see your ticket is about: %q.", ticket.CustomerName, ticket.Subject))
		followUp := botMessage(ev.TicketID, "To get started, could you please explain the issue in a bit more detail?")

		if err := c.saveAndBroadcast(ctx, welcome); err != nil {
			c.log.Error("could not persist welcome message", "ticket_id", ev.TicketID, "error", err)
			return
		}
		if err := c.saveAndBroadcast(ctx, followUp); err != nil {
			c.log.Error("could not persist follow-up message", "ticket_id", ev.TicketID, "error", err)
			return
		}

		c.hub.ResetIntakeStep(client, ev.TicketID)
	}
}

func (c *Coordinator) HandleUserMessage(ctx context.Context, client *Client, ev ClientEvent) {
	ticket, err := c.convo.GetTicket(ctx, ev.TicketID)
	if err != nil {
		return
	}

	if types.OwnershipOf(ticket.Status) != types.OwnershipBot {
		// A human owns the room: persist and relay, no automated reply.
		userMessage := &types.ChatMessage{
			TicketID:   ev.TicketID,
			SenderType: types.SenderUser,
			SenderID:   ev.UserID,
			Content:    ev.Message,
		}
		if err := c.saveAndBroadcast(ctx, userMessage); err != nil {
			c.log.Error("could not persist user message", "ticket_id", ev.TicketID, "error", err)
		}
		return
	}

	if c.cfg.IntakeMode == IntakeModeAI {
		result, err := c.convo.HandleUserMessage(ctx, ev.TicketID, ev.UserID, ev.Message)
		if err != nil {
			c.log.Error("AI intake failed", "ticket_id", ev.TicketID, "error", err)
			return
		}
		c.broadcast(ctx, ev.TicketID, NewMessageEvent(ev.TicketID, result.UserMessage))
		c.broadcast(ctx, ev.TicketID, NewMessageEvent(ev.TicketID, result.AIMessage))
		return
	}

	c.runScriptedStep(ctx, client, ev)
}

// runScriptedStep advances the fixed intake dialogue for this connection:
// step 0 asks for the verification email, step 1 acknowledges and hands the
// ticket to the agent queue, anything later is a holding reply.
func (c *Coordinator) runScriptedStep(ctx context.Context, client *Client, ev ClientEvent) {
	var reply *types.ChatMessage
	switch c.hub.IntakeStep(client, ev.TicketID) {
	case 0:
		reply = botMessage(ev.TicketID, "Thank you for the details. To verify your account, could you please provide the email address associated with your purchase?")
		c.hub.AdvanceIntakeStep(client, ev.TicketID)
	case 1:
		reply = botMessage(ev.TicketID, "Perfect, thank you! I am now creating a support ticket and assigning a human agent to review your case. Please wait a moment.")
		if err := c.convo.MarkPendingAgent(ctx, ev.TicketID); err != nil {
			c.log.Error("handoff transition failed", "ticket_id", ev.TicketID, "error", err)
		} else {
			c.log.Info("scripted handoff complete", "ticket_id", ev.TicketID)
		}
		c.hub.AdvanceIntakeStep(client, ev.TicketID)
	default:
		reply = botMessage(ev.TicketID, "An agent will be with you shortly. Thank you for your patience.")
	}

	userMessage := &types.ChatMessage{
		TicketID:   ev.TicketID,
		SenderType: types.SenderUser,
		SenderID:   ev.UserID,
		Content:    ev.Message,
	}
	if err := c.saveAndBroadcast(ctx, userMessage); err != nil {
		c.log.Error("could not persist user message", "ticket_id", ev.TicketID, "error", err)
		return
	}
	if err := c.saveAndBroadcast(ctx, reply); err != nil {
		c.log.Error("could not persist scripted reply", "ticket_id", ev.TicketID, "error", err)
	}
}

// HandleAgentMessage persists and relays agent traffic. No status side effects
// here; agent-driven transitions only happen through the REST path.
func (c *Coordinator) HandleAgentMessage(ctx context.Context, client *Client, ev ClientEvent) {
	message := &types.ChatMessage{
		TicketID:   ev.TicketID,
		SenderType: types.SenderHumanAgent,
		SenderID:   ev.AgentID,
		SenderName: ev.AgentName,
		Content:    ev.Message,
	}
	if err := c.saveAndBroadcast(ctx, message); err != nil {
		c.log.Error("could not persist agent message", "ticket_id", ev.TicketID, "error", err)
	}
}

func (c *Coordinator) Disconnect(client *Client) {
	c.hub.RemoveClient(client)
}

package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/driffle/genie-backend/internal/platform/apierr"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/repos"
	"github.com/driffle/genie-backend/internal/services"
)

type ChatHandler struct {
	log   *logger.Logger
	convo services.ConversationService
}

func NewChatHandler(log *logger.Logger, convo services.ConversationService) *ChatHandler {
	return &ChatHandler{
		log:   log.With("handler", "ChatHandler"),
		convo: convo,
	}
}

// GET /api/tickets/:ticketId/messages
func (h *ChatHandler) GetChatHistory(c *gin.Context) {
	ticketID := c.Param("ticketId")
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 {
		limit = 50
	}

	if _, err := h.convo.GetTicket(c.Request.Context(), ticketID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		RespondError(c, err)
		return
	}

	messages, err := h.convo.GetChatHistory(c.Request.Context(), ticketID, limit)
	if err != nil {
		h.log.Error("chat history lookup failed", "ticket_id", ticketID, "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"ticketId": ticketID, "messages": messages})
}

// POST /api/tickets/:ticketId/messages/user
func (h *ChatHandler) PostUserMessage(c *gin.Context) {
	ticketID := c.Param("ticketId")
	var req struct {
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	if req.UserID == "" || req.Message == "" {
		RespondError(c, apierr.Validation("userId and message are required"))
		return
	}

	// Lookup doubles as the ownership check: a ticket belonging to someone else
	// reads the same as a missing one.
	if _, err := h.convo.VerifyTicketOwner(c.Request.Context(), ticketID, req.UserID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		RespondError(c, err)
		return
	}

	result, err := h.convo.HandleUserMessage(c.Request.Context(), ticketID, req.UserID, req.Message)
	if err != nil {
		h.log.Error("user message handling failed", "ticket_id", ticketID, "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/tickets/:ticketId/messages/agent
func (h *ChatHandler) PostAgentMessage(c *gin.Context) {
	ticketID := c.Param("ticketId")
	var req struct {
		AgentID           string `json:"agentId"`
		AgentName         string `json:"agentName"`
		Message           string `json:"message"`
		RequestSuggestion bool   `json:"requestSuggestion"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	if req.AgentID == "" || req.Message == "" {
		RespondError(c, apierr.Validation("agentId and message are required"))
		return
	}

	if _, err := h.convo.GetTicket(c.Request.Context(), ticketID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		RespondError(c, err)
		return
	}

	message, suggestion, err := h.convo.HandleAgentMessage(c.Request.Context(), ticketID, req.AgentID, req.AgentName, req.Message, req.RequestSuggestion)
	if err != nil {
		h.log.Error("agent message handling failed", "ticket_id", ticketID, "error", err)
		RespondError(c, err)
		return
	}

	resp := gin.H{"message": message}
	if req.RequestSuggestion {
		resp["suggestion"] = suggestion
	}
	RespondOK(c, resp)
}

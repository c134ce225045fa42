package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/driffle/genie-backend/internal/platform/apierr"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/repos"
	"github.com/driffle/genie-backend/internal/services"
)

type TicketHandler struct {
	log     *logger.Logger
	convo   services.ConversationService
	insight services.InsightService
}

func NewTicketHandler(log *logger.Logger, convo services.ConversationService, insight services.InsightService) *TicketHandler {
	return &TicketHandler{
		log:     log.With("handler", "TicketHandler"),
		convo:   convo,
		insight: insight,
	}
}

// POST /api/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req struct {
		UserID         string `json:"userId"`
		Subject        string `json:"subject"`
		InitialMessage string `json:"initialMessage"`
		CustomerEmail  string `json:"customerEmail"`
		CustomerName   string `json:"customerName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}
	if req.UserID == "" || req.Subject == "" || req.InitialMessage == "" {
		RespondError(c, apierr.Validation("userId, subject and initialMessage are required"))
		return
	}

	ticket, aiResponse, err := h.convo.CreateTicket(c.Request.Context(), services.CreateTicketInput{
		UserID:         req.UserID,
		Subject:        req.Subject,
		InitialMessage: req.InitialMessage,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
	})
	if err != nil {
		h.log.Error("ticket creation failed", "user_id", req.UserID, "error", err)
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"ticket": ticket, "aiResponse": aiResponse})
}

// GET /api/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	filter := repos.TicketFilter{
		Status:          c.Query("status"),
		Priority:        c.Query("priority"),
		AssignedAgentID: c.Query("assignedAgentId"),
	}
	tickets, err := h.convo.ListTickets(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("ticket listing failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"tickets": tickets})
}

// GET /api/tickets/user/:userId
func (h *TicketHandler) ListUserTickets(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		RespondError(c, apierr.Validation("userId is required"))
		return
	}
	tickets, err := h.convo.ListUserTickets(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("user ticket listing failed", "user_id", userID, "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"tickets": tickets})
}

// GET /api/tickets/:ticketId
func (h *TicketHandler) GetTicketDetails(c *gin.Context) {
	ticketID := c.Param("ticketId")
	details, err := h.convo.GetTicketDetails(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		h.log.Error("ticket detail lookup failed", "ticket_id", ticketID, "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, details)
}

// GET /api/tickets/:ticketId/summary
func (h *TicketHandler) GetTicketSummary(c *gin.Context) {
	ticketID := c.Param("ticketId")
	summary, err := h.insight.GenerateTicketSummary(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		h.log.Error("summary generation failed", "ticket_id", ticketID, "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"summary": summary})
}

// POST /api/tickets/:ticketId/suggest
func (h *TicketHandler) SuggestResponse(c *gin.Context) {
	ticketID := c.Param("ticketId")
	var req struct {
		AgentDraft string `json:"agentDraft"`
	}
	// Body is optional; a bare POST asks for a fresh suggestion.
	_ = c.ShouldBindJSON(&req)

	if _, err := h.convo.GetTicket(c.Request.Context(), ticketID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, apierr.NotFound("ticket %s not found", ticketID))
			return
		}
		RespondError(c, err)
		return
	}

	suggestion := h.insight.SuggestResponse(c.Request.Context(), ticketID, req.AgentDraft)
	RespondOK(c, gin.H{"suggestion": suggestion})
}

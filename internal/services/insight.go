package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/driffle/genie-backend/internal/clients/genai"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/repos"
	"github.com/driffle/genie-backend/internal/types"
)

const contextPreviewLength = 500

// InsightService produces the AI-derived artifacts for a ticket: tone
// classification, the cached summary, and suggested agent replies. Every
// method that depends on model output has a deterministic degraded shape and
// never fails the conversation on an AI outage.
type InsightService interface {
	AnalyzeTone(ctx context.Context, messages []*types.ChatMessage) ToneResult
	GenerateTicketSummary(ctx context.Context, ticketID string) (*types.TicketSummary, error)
	SuggestResponse(ctx context.Context, ticketID string, agentDraft string) string
}

type insightService struct {
	log       *logger.Logger
	ai        genai.Client
	tickets   repos.TicketRepo
	messages  repos.ChatMessageRepo
	summaries repos.TicketSummaryRepo
	orders    repos.OrderRepo
}

func NewInsightService(
	log *logger.Logger,
	ai genai.Client,
	tickets repos.TicketRepo,
	messages repos.ChatMessageRepo,
	summaries repos.TicketSummaryRepo,
	orders repos.OrderRepo,
) InsightService {
	return &insightService{
		log:       log.With("service", "InsightService"),
		ai:        ai,
		tickets:   tickets,
		messages:  messages,
		summaries: summaries,
		orders:    orders,
	}
}

// stripCodeFence removes a markdown ```json fence if the model wrapped its
// output in one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (s *insightService) AnalyzeTone(ctx context.Context, messages []*types.ChatMessage) ToneResult {
	var userLines []string
	for _, msg := range messages {
		if msg.SenderType == types.SenderUser {
			userLines = append(userLines, msg.Content)
		}
	}
	if len(userLines) == 0 {
		return NeutralTone()
	}

	raw, err := s.ai.GenerateText(ctx, "You are a sentiment analysis expert.", []genai.Turn{
		{Role: genai.RoleUser, Text: tonePrompt(strings.Join(userLines, "\n"))},
	})
	if err != nil {
		s.log.Warn("tone analysis failed, using neutral", "error", err)
		return NeutralTone()
	}

	var result ToneResult
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &result); err != nil {
		s.log.Warn("tone analysis output did not parse, using neutral", "error", err)
		return NeutralTone()
	}
	if result.Tone == "" {
		return NeutralTone()
	}
	return result
}

type summaryPayload struct {
	Summary           string            `json:"summary"`
	KeyPoints         []string          `json:"keyPoints"`
	CustomerTone      string            `json:"customerTone"`
	SentimentScore    float64           `json:"sentimentScore"`
	SuggestedResponse string            `json:"suggestedResponse"`
	SuggestedActions  []string          `json:"suggestedActions"`
	ContextSummary    map[string]string `json:"contextSummary"`
}

func preview(s string) string {
	if len(s) > contextPreviewLength {
		return s[:contextPreviewLength]
	}
	return s
}

func (s *insightService) GenerateTicketSummary(ctx context.Context, ticketID string) (*types.TicketSummary, error) {
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

	chatText := transcript(history)
	orderText := ordersText(orders)

	raw, genErr := s.ai.GenerateText(ctx,
		"You are an expert customer support analyst. Analyze tickets and provide actionable insights.",
		[]genai.Turn{{Role: genai.RoleUser, Text: summaryPrompt(ticket, chatText, orderText)}},
	)

	var payload summaryPayload
	parsed := false
	if genErr == nil {
		if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err == nil && payload.Summary != "" {
			parsed = true
		}
	} else {
		s.log.Warn("summary generation failed, using degraded summary", "ticket_id", ticketID, "error", genErr)
	}
	if !parsed {
		// Degraded shape: raw text as summary, neutral tone, truncated context.
		// When generation itself failed there is no raw text to fall back on.
		summaryText := raw
		if summaryText == "" {
			summaryText = "Summary unavailable"
		}
		payload = summaryPayload{
			Summary:           summaryText,
			KeyPoints:         []string{},
			CustomerTone:      "neutral",
			SentimentScore:    0,
			SuggestedResponse: "",
			SuggestedActions:  []string{},
			ContextSummary: map[string]string{
				"chatHistory":   preview(chatText),
				"orderHistory":  preview(orderText),
				"ticketDetails": "Ticket " + ticket.TicketID + ": " + ticket.Subject,
			},
		}
	}

	contextSummary := datatypes.JSONMap{}
	for k, v := range payload.ContextSummary {
		contextSummary[k] = v
	}

	summary := &types.TicketSummary{
		TicketID:          ticketID,
		Summary:           payload.Summary,
		KeyPoints:         payload.KeyPoints,
		CustomerTone:      payload.CustomerTone,
		SentimentScore:    payload.SentimentScore,
		SuggestedResponse: payload.SuggestedResponse,
		SuggestedActions:  payload.SuggestedActions,
		ContextSummary:    contextSummary,
		UpdatedAt:         time.Now(),
	}

	if err := s.summaries.Upsert(ctx, nil, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *insightService) SuggestResponse(ctx context.Context, ticketID string, agentDraft string) string {
	// The cached summary is advisory; absence does not force a regeneration.
	summary, err := s.summaries.GetByTicketID(ctx, nil, ticketID)
	if err != nil {
		summary = nil
	}

	recent, err := s.messages.ListRecentByTicket(ctx, nil, ticketID, 10)
	if err != nil {
		s.log.Warn("could not load recent messages for suggestion", "ticket_id", ticketID, "error", err)
		return suggestionFallback
	}

	reply, err := s.ai.GenerateText(ctx,
		"You are an expert customer support assistant helping agents write effective responses.",
		[]genai.Turn{{Role: genai.RoleUser, Text: suggestionPrompt(summary, transcript(recent), agentDraft)}},
	)
	if err != nil {
		s.log.Warn("suggestion generation failed, using fallback", "ticket_id", ticketID, "error", err)
		return suggestionFallback
	}
	return reply
}

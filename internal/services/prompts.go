package services

import (
	"fmt"
	"strings"

	"github.com/driffle/genie-backend/internal/types"
)

const assistantName = "Genie"

const apologyFallback = "I apologize, but I'm having trouble processing your request right now. Please try again or wait for a human agent to assist you."

const suggestionFallback = "I apologize for the inconvenience. Let me help you resolve this issue."

func transcript(messages []*types.ChatMessage) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(msg.SenderType))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}

func ordersText(orders []*types.Order) string {
	if len(orders) == 0 {
		return "No order history available"
	}
	lines := make([]string, 0, len(orders))
	for _, order := range orders {
		names := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			names = append(names, item.ProductName)
		}
		lines = append(lines, fmt.Sprintf("Order %s: %s - %s - %.2f %s",
			order.OrderID, strings.Join(names, ", "), order.Status, order.TotalAmount, order.Currency))
	}
	return strings.Join(lines, "\n")
}

func supportReplyPrompt(ticket *types.Ticket, history []*types.ChatMessage, currentMessage string) string {
	return fmt.Sprintf(`You are %s, a helpful AI customer support assistant for Driffle, a gaming platform.

TICKET INFORMATION:
- Subject: %s
- Status: %s
- Priority: %s

CONVERSATION HISTORY:
%s

CURRENT USER MESSAGE:
%s

Guidelines:
- Be friendly, professional, and empathetic
- Provide clear and helpful responses
- If you cannot resolve the issue, acknowledge it and indicate that a human agent will assist
- Keep responses concise but informative
- Use the conversation history to maintain context

Respond naturally to the user's message.`, assistantName, ticket.Subject, ticket.Status, ticket.Priority, transcript(history), currentMessage)
}

func tonePrompt(userMessages string) string {
	return fmt.Sprintf(`Analyze the customer's tone and sentiment from these messages:

%s

Provide a JSON response:
{
    "tone": "positive|neutral|negative|frustrated|angry",
    "sentiment": "positive|neutral|negative",
    "sentimentScore": -1.0 to 1.0
}`, userMessages)
}

func summaryPrompt(ticket *types.Ticket, chatText, orderText string) string {
	customer := ticket.CustomerName
	if customer == "" {
		customer = ticket.CustomerEmail
	}
	if customer == "" {
		customer = "Unknown"
	}
	return fmt.Sprintf(`You are an AI assistant analyzing a customer support ticket. Generate a comprehensive summary with the following information:

TICKET DETAILS:
- Ticket ID: %s
- Subject: %s
- Status: %s
- Priority: %s
- Customer: %s

CHAT HISTORY:
%s

ORDER HISTORY:
%s

Please provide a JSON response with the following structure:
{
    "summary": "A comprehensive summary of the ticket issue and conversation",
    "keyPoints": ["Key point 1", "Key point 2", "Key point 3"],
    "customerTone": "positive|neutral|negative|frustrated|angry",
    "sentimentScore": -1.0 to 1.0 (where -1 is very negative, 0 is neutral, 1 is very positive),
    "suggestedResponse": "A suggested response for the support agent",
    "suggestedActions": ["Action 1", "Action 2"],
    "contextSummary": {
        "chatHistory": "Summary of chat history",
        "orderHistory": "Summary of order history",
        "ticketDetails": "Summary of ticket details"
    }
}

Analyze the customer's tone and sentiment carefully. Consider:
- Language used (formal, casual, angry, frustrated)
- Frequency of messages
- Escalation patterns
- Order history context
- Overall sentiment`, ticket.TicketID, ticket.Subject, ticket.Status, ticket.Priority, customer, chatText, orderText)
}

func suggestionPrompt(summary *types.TicketSummary, recentChat string, agentDraft string) string {
	summaryText := "No summary available"
	tone := "neutral"
	if summary != nil {
		if summary.Summary != "" {
			summaryText = summary.Summary
		}
		if summary.CustomerTone != "" {
			tone = summary.CustomerTone
		}
	}

	task := "Suggest an appropriate response to the customer."
	if agentDraft != "" {
		task = fmt.Sprintf("AGENT'S DRAFT MESSAGE: %s\n\nPlease improve or suggest an alternative response.", agentDraft)
	}

	return fmt.Sprintf(`You are an AI assistant helping a customer support agent respond to a customer.

TICKET SUMMARY:
%s

CUSTOMER TONE: %s

RECENT CONVERSATION:
%s

%s

Guidelines:
- Be empathetic and professional
- Address the customer's concerns directly
- Match the customer's tone appropriately
- Provide clear next steps if needed
- Keep the response concise but helpful

Provide only the suggested response text, no additional formatting.`, summaryText, tone, recentChat, task)
}

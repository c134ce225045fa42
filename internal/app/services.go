package app

import (
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/retrieval"
	"github.com/driffle/genie-backend/internal/services"
)

type Services struct {
	Insight      services.InsightService
	Conversation services.ConversationService
	Search       services.SearchService
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) (Services, error) {
	log.Info("Wiring services...")

	store, err := retrieval.NewStore(log, clients.GenAI)
	if err != nil {
		return Services{}, err
	}

	insight := services.NewInsightService(log, clients.GenAI, reposet.Ticket, reposet.ChatMessage, reposet.TicketSummary, reposet.Order)
	conversation := services.NewConversationService(log, clients.GenAI, insight, reposet.Ticket, reposet.ChatMessage, reposet.Order)
	search := services.NewSearchService(log, clients.GenAI, store, clients.Catalog)

	return Services{
		Insight:      insight,
		Conversation: conversation,
		Search:       search,
	}, nil
}

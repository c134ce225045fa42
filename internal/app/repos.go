package app

import (
	"gorm.io/gorm"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/repos"
)

type Repos struct {
	Ticket        repos.TicketRepo
	ChatMessage   repos.ChatMessageRepo
	TicketSummary repos.TicketSummaryRepo
	Order         repos.OrderRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Ticket:        repos.NewTicketRepo(db, log),
		ChatMessage:   repos.NewChatMessageRepo(db, log),
		TicketSummary: repos.NewTicketSummaryRepo(db, log),
		Order:         repos.NewOrderRepo(db, log),
	}
}

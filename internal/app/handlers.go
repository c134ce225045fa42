package app

import (
	"github.com/driffle/genie-backend/internal/handlers"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/realtime"
)

type Handlers struct {
	Ticket   *handlers.TicketHandler
	Chat     *handlers.ChatHandler
	Search   *handlers.SearchHandler
	Realtime *handlers.RealtimeHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, hub *realtime.Hub, coordinator *realtime.Coordinator) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Ticket:   handlers.NewTicketHandler(log, serviceset.Conversation, serviceset.Insight),
		Chat:     handlers.NewChatHandler(log, serviceset.Conversation),
		Search:   handlers.NewSearchHandler(log, serviceset.Search),
		Realtime: handlers.NewRealtimeHandler(log, hub, coordinator),
	}
}

package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/driffle/genie-backend/internal/handlers"
)

type RouterConfig struct {
	AllowedOrigins  []string
	TicketHandler   *handlers.TicketHandler
	ChatHandler     *handlers.ChatHandler
	SearchHandler   *handlers.SearchHandler
	RealtimeHandler *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/ws", cfg.RealtimeHandler.Handle)

	api := router.Group("/api")
	{
		// Tickets
		api.POST("/tickets", cfg.TicketHandler.CreateTicket)
		api.GET("/tickets", cfg.TicketHandler.ListTickets)
		api.GET("/tickets/user/:userId", cfg.TicketHandler.ListUserTickets)
		api.GET("/tickets/:ticketId", cfg.TicketHandler.GetTicketDetails)
		api.GET("/tickets/:ticketId/summary", cfg.TicketHandler.GetTicketSummary)
		api.POST("/tickets/:ticketId/suggest", cfg.TicketHandler.SuggestResponse)
		// Chat
		api.GET("/tickets/:ticketId/messages", cfg.ChatHandler.GetChatHistory)
		api.POST("/tickets/:ticketId/messages/user", cfg.ChatHandler.PostUserMessage)
		api.POST("/tickets/:ticketId/messages/agent", cfg.ChatHandler.PostAgentMessage)
		// Search
		api.POST("/search", cfg.SearchHandler.Resolve)
		api.POST("/search/documents", cfg.SearchHandler.IndexDocuments)
	}

	return router
}

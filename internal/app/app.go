package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/driffle/genie-backend/internal/db"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/realtime"
	"github.com/driffle/genie-backend/internal/realtime/bus"
	"github.com/driffle/genie-backend/internal/server"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	cancel   context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientset, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(log, clientset, reposet)
	if err != nil {
		log.Sync()
		return nil, err
	}

	hub := realtime.NewHub(log)
	coordinator := realtime.NewCoordinator(log, hub, serviceset.Conversation, realtime.CoordinatorConfig{
		IntakeMode:      cfg.IntakeMode,
		DemoResetOnJoin: cfg.DemoResetOnJoin,
	})
	if clientset.RoomBus != nil {
		// With a bus, broadcasts publish instead of fanning out locally; the
		// forwarder (started in Start) feeds every instance's hub, this one
		// included, so events are delivered exactly once per subscriber.
		roomBus := clientset.RoomBus
		coordinator.SetPublisher(func(ctx context.Context, ticketID string, event realtime.ServerEvent) error {
			return roomBus.Publish(ctx, bus.RoomEvent{TicketID: ticketID, Event: event})
		})
	}

	handlerset := wireHandlers(log, serviceset, hub, coordinator)
	router := server.NewRouter(server.RouterConfig{
		AllowedOrigins:  cfg.AllowedOrigins,
		TicketHandler:   handlerset.Ticket,
		ChatHandler:     handlerset.Chat,
		SearchHandler:   handlerset.Search,
		RealtimeHandler: handlerset.Realtime,
	})

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Clients:  clientset,
		Repos:    reposet,
		Services: serviceset,
		Hub:      hub,
	}, nil
}

func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Clients.RoomBus != nil {
		hub := a.Hub
		if err := a.Clients.RoomBus.StartForwarder(ctx, func(m bus.RoomEvent) {
			hub.Broadcast(m.TicketID, m.Event)
		}); err != nil {
			return fmt.Errorf("start room bus forwarder: %w", err)
		}
	}
	return nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Clients.RoomBus != nil {
		_ = a.Clients.RoomBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

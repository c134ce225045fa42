package app

import (
	"os"

	"github.com/driffle/genie-backend/internal/clients/catalog"
	"github.com/driffle/genie-backend/internal/clients/genai"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/realtime/bus"
)

type Clients struct {
	GenAI   genai.Client
	Catalog catalog.Client

	// RoomBus is nil when REDIS_ADDR is unset; broadcasts then stay local to
	// this instance.
	RoomBus bus.Bus
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := genai.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	cat, err := catalog.NewClient(log)
	if err != nil {
		return Clients{}, err
	}

	var roomBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		roomBus, err = bus.NewRedisBus(log)
		if err != nil {
			return Clients{}, err
		}
	} else {
		log.Info("REDIS_ADDR not set, realtime broadcasts are local-only")
	}

	return Clients{
		GenAI:   ai,
		Catalog: cat,
		RoomBus: roomBus,
	}, nil
}

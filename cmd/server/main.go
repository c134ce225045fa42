package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/driffle/genie-backend/internal/app"
)

func main() {
	// Missing .env is fine; containers inject real env vars directly.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Startup failed", "error", err)
		os.Exit(1)
	}

	addr := ":" + application.Cfg.Port
	fmt.Printf("Server listening on %s\n", addr)
	if err := application.Run(addr); err != nil {
		application.Log.Error("Server failed", "error", err)
	}
}

package app

import (
	"strings"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/utils"
)

type Config struct {
	Port            string
	AllowedOrigins  []string
	IntakeMode      string
	DemoResetOnJoin bool
}

func LoadConfig(log *logger.Logger) Config {
	origins := utils.GetEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173", log)
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return Config{
		Port:            utils.GetEnv("PORT", "8080", log),
		AllowedOrigins:  allowed,
		IntakeMode:      utils.GetEnv("INTAKE_MODE", "scripted", log),
		DemoResetOnJoin: utils.GetEnvAsBool("DEMO_RESET_ON_JOIN", false, log),
	}
}

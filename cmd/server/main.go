package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/namc/permit-scout/internal/ai"
	"github.com/namc/permit-scout/internal/analysis"
	"github.com/namc/permit-scout/internal/api"
	"github.com/namc/permit-scout/internal/config"
	"github.com/namc/permit-scout/internal/permits"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	permitClient, err := permits.NewClient(cfg.PermitsAPIKey, cfg.PermitsURL)
	if err != nil {
		log.Fatalf("Failed to initialize permit source: %v", err)
	}

	aiClient, err := ai.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicURL, cfg.Model)
	if err != nil {
		log.Fatalf("Failed to initialize reasoning client: %v", err)
	}

	svc := analysis.NewService(permitClient, aiClient, cfg.Region)

	srv := api.NewServer(svc, aiClient, cfg.CORSOrigins)
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatal(err)
	}
}

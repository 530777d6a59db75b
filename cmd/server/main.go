package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/tripweaver/backend/config"
	"github.com/tripweaver/backend/internal/app"
	httpDelivery "github.com/tripweaver/backend/internal/delivery/http"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting TripWeaver Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache: ttl=%s max_entries=%d", cfg.Cache.TTL, cfg.Cache.MaxEntries)
	log.Printf("Aggregator: max_results=%d similarity=%.2f slack=%.2f",
		cfg.Aggregator.MaxResults, cfg.Aggregator.SimilarityThreshold, cfg.Aggregator.BudgetSlack)

	application, err := app.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer application.Close()

	handler := httpDelivery.NewHandler(
		application.Dining,
		application.Attractions,
		application.Trips,
		application.Reports,
	)

	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

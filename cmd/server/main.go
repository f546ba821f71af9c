package main

import (
	"context"
	"log"
	"os"

	"water-features-api/internal/cache"
	"water-features-api/internal/config"
	"water-features-api/internal/realtime"
	"water-features-api/internal/routes"
	"water-features-api/internal/service"
	"water-features-api/internal/sparql"
)

func main() {
	// Load configuration (file + env overrides)
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Wire the shared instances explicitly; nothing lives in package globals
	caches := service.NewCaches(cfg.CacheTTL())
	client := sparql.NewClient(cfg.SPARQLEndpoint)
	hub := realtime.NewHub()
	svc := service.NewFeatureService(client, caches, hub)

	// Periodic cleanup of expired cache entries; every sweep is announced
	// to the event stream
	janitor := &cache.Janitor{
		Interval: cfg.CleanupInterval(),
		Stores:   caches.Purgers(),
		OnSweep:  svc.NotifyCleanup,
	}
	go janitor.Run(context.Background())

	// Warm the per-category collections in the background; a failing preload
	// never blocks startup
	go svc.PreloadAll(context.Background())

	// Setup the routes (public and admin routes)
	ginRoutes := routes.SetupRoutes(svc, hub, cfg.AdminToken)

	// Start server
	log.Printf("Server starting on port %s", cfg.Addr())
	log.Println("API endpoints:")
	log.Println("  GET    /api/features")
	log.Println("  GET    /api/features/:id")
	log.Println("  GET    /api/categories")
	log.Println("  GET    /api/events")
	log.Println("  POST   /api/admin/preload")
	log.Println("  POST   /api/admin/cache/clear")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

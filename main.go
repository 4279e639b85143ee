package main

import (
	"log"

	api "github.com/seeya29/SmartBrief/cmd/api"
	summarydomain "github.com/seeya29/SmartBrief/internal/summary/domain"
	summaryRepo "github.com/seeya29/SmartBrief/internal/summary/repository"
	summaryUsecase "github.com/seeya29/SmartBrief/internal/summary/usecase"
	"github.com/seeya29/SmartBrief/pkg/cache"
	"github.com/seeya29/SmartBrief/pkg/config"
	"github.com/seeya29/SmartBrief/pkg/database"

	"github.com/go-redis/redis/v8"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schema
	if err := db.AutoMigrate(&summarydomain.SummaryRecord{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repository (dependency injection)
	repo := summaryRepo.NewSummaryRepository(db)

	// Initialize optional context cache
	var ctxCache summaryUsecase.ContextCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		c, err := cache.NewContextCache(client, cfg.ContextCacheTTL)
		if err != nil {
			log.Printf("[WARN] Context cache disabled: %v", err)
		} else {
			ctxCache = c
			log.Println("Context cache initialized")
		}
	}

	// Initialize usecase and batch worker
	uc := summaryUsecase.NewSummaryUsecase(repo, ctxCache)
	worker := summaryUsecase.NewBatchWorkerService(uc, cfg.SummaryWorkers)
	worker.Start()

	// Initialize HTTP handler and start server
	handler := api.NewHandler(uc, worker)
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

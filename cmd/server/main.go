package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-chat-backend/internal/config"
	"portfolio-chat-backend/internal/database"
	"portfolio-chat-backend/internal/handlers"
	"portfolio-chat-backend/internal/repository"
	"portfolio-chat-backend/internal/router"
	"portfolio-chat-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Portfolio Chat Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize MongoDB Client ────
	mongoClient, err := database.NewMongoClient(cfg.MongoURL)
	if err != nil {
		log.Fatalf("✗ MongoDB connection failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	log.Println("✓ MongoDB connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Initialize Repository ────
	conversationRepo := repository.NewConversationRepo(mongoClient.Database(cfg.MongoDB))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := conversationRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("✗ Index creation failed: %v", err)
	}
	cancel()
	log.Println("✓ Database indexes ensured")

	// ──── Initialize Services ────
	ollamaService := services.NewOllamaService(cfg)
	turnLocker := services.NewTurnLocker(redisClient)
	chatService := services.NewChatService(conversationRepo, ollamaService, turnLocker)
	log.Printf("✓ Ollama client initialized (%s via %s)", cfg.OllamaModel, cfg.OllamaHost)

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(chatService, conversationRepo)
	healthHandler := handlers.NewHealthHandler(ollamaService, mongoClient, redisClient)

	// ──── Start HTTP Server ────
	r := router.New(chatHandler, healthHandler, cfg.ChatRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Portfolio Chat Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

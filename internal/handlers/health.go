package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type inferencePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	ollama      inferencePinger
	mongoClient *mongo.Client
	redisClient *redis.Client
}

func NewHealthHandler(ollama inferencePinger, mongoClient *mongo.Client, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		ollama:      ollama,
		mongoClient: mongoClient,
		redisClient: redisClient,
	}
}

// Health reports connectivity to each collaborator. Always 200: a degraded
// dependency is status information, not a request failure.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ollamaStatus := "connected"
	if err := h.ollama.Ping(ctx); err != nil {
		ollamaStatus = "disconnected"
	}

	dbStatus := "connected"
	if err := h.mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		dbStatus = "disconnected"
	}

	redisStatus := "connected"
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		redisStatus = "disconnected"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"ollama":   ollamaStatus,
		"database": dbStatus,
		"redis":    redisStatus,
	})
}

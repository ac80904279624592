package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"portfolio-chat-backend/internal/handlers"
	"portfolio-chat-backend/internal/middleware"
)

func New(
	chatHandler *handlers.ChatHandler,
	healthHandler *handlers.HealthHandler,
	chatRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	// Openly public surface: allow everything
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	chatLimiter := middleware.NewRateLimiter(chatRateLimit, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Chat)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", chatHandler.ListConversations)
			r.Get("/{id}", chatHandler.GetConversation)
			r.Delete("/{id}", chatHandler.DeleteConversation)
		})
	})

	return r
}

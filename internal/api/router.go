package api

import (
	"net/http"

	"github.com/argtbn/chatbot-api/internal/api/handler"
	customMiddleware "github.com/argtbn/chatbot-api/internal/api/middleware"
	"github.com/argtbn/chatbot-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router.
//
// No request timeout middleware is applied: /chat holds the connection open
// for the whole generation, and the backend clients bound their own calls.
func NewRouter(chatService *service.ChatService, store handler.Pinger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	chatHandler := handler.NewChatHandler(chatService)

	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(store))

	r.Post("/chat", chatHandler.Chat)
	r.Get("/chat-session", chatHandler.ListSessions)
	r.Get("/message", chatHandler.ListMessages)

	return r
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/argtbn/chatbot-api/internal/api"
	"github.com/argtbn/chatbot-api/internal/api/handler"
	"github.com/argtbn/chatbot-api/internal/backend"
	"github.com/argtbn/chatbot-api/internal/backend/gemini"
	"github.com/argtbn/chatbot-api/internal/backend/ollama"
	"github.com/argtbn/chatbot-api/internal/config"
	"github.com/argtbn/chatbot-api/internal/domain"
	"github.com/argtbn/chatbot-api/internal/repository/postgres"
	"github.com/argtbn/chatbot-api/internal/repository/sqlite"
	"github.com/argtbn/chatbot-api/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try standard locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.Logging)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Database.Driver).
		Str("backend", cfg.Backend.Default).
		Msg("Starting chatbot API server")

	ctx := context.Background()

	var (
		sessionRepo domain.SessionRepository
		messageRepo domain.MessageRepository
		store       handler.Pinger
	)

	switch cfg.Database.Driver {
	case "sqlite":
		st, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open sqlite database")
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure schema")
		}
		sessionRepo = sqlite.NewSessionRepository(st)
		messageRepo = sqlite.NewMessageRepository(st)
		store = st
	default:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure schema")
		}
		sessionRepo = postgres.NewSessionRepository(db)
		messageRepo = postgres.NewMessageRepository(db)
		store = db
	}

	registry := backend.NewRegistry(cfg.Backend.Default)
	if cfg.Backend.Ollama.Host != "" {
		log.Info().Str("host", cfg.Backend.Ollama.Host).Str("model", cfg.Backend.Ollama.Model).Msg("Registering ollama backend")
		registry.Register(ollama.New(cfg.Backend.Ollama.Host, cfg.Backend.Ollama.Model, cfg.Backend.Ollama.Timeout))
	}
	if cfg.Backend.Gemini.APIKey != "" {
		log.Info().Str("model", cfg.Backend.Gemini.Model).Msg("Registering gemini backend")
		registry.Register(gemini.New(cfg.Backend.Gemini.APIKey, cfg.Backend.Gemini.Model))
	}

	chatService := service.NewChatService(sessionRepo, messageRepo, registry)
	router := api.NewRouter(chatService, store)

	// WriteTimeout stays zero: streaming responses outlive any fixed budget,
	// the backend client timeout bounds them instead.
	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func setupLogger(cfg config.LoggingConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpnow-go/rpnow/internal/api"
	"github.com/rpnow-go/rpnow/internal/api/middleware"
	"github.com/rpnow-go/rpnow/internal/config"
	"github.com/rpnow-go/rpnow/internal/handlers"
	"github.com/rpnow-go/rpnow/internal/rp"
	"github.com/rpnow-go/rpnow/internal/store"
	"github.com/rpnow-go/rpnow/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize the data store: Postgres when configured, SQLite otherwise
	var st store.DataStore
	if cfg.DatabaseURL != "" {
		logger.Info().Msg("running database migrations...")
		if err := store.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed")

		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		st = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		st = sqliteStore
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")
	}
	defer st.Close()

	// Initialize Redis (optional, enables rate limiting)
	var redisStore *store.RedisStore
	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		var err error
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		limiter = middleware.NewRateLimiter(redisStore.Client(), logger, cfg.RateLimitWhitelist)
		logger.Info().Msg("connected to Redis, rate limiting enabled")
	} else {
		logger.Warn().Msg("no Redis configured, rate limiting disabled")
	}

	// Wire the room service, broadcast hub, and router
	svc := rp.NewService(cfg.Limits, st, logger)
	hub := ws.NewHub()
	h := handlers.NewHandler(svc, st, redisStore, hub, logger, cfg.IPIDSalt)
	router := api.NewRouter(h, logger, limiter, cfg.Limits)

	// Create server. WriteTimeout stays zero because the stream endpoint
	// holds connections open; the websocket layer sets its own deadlines.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting rpnow server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}

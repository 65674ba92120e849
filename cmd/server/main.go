package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carechat-backend/internal/config"
	"carechat-backend/internal/handlers"
	"carechat-backend/internal/logging"
	"carechat-backend/internal/middleware"
	"carechat-backend/internal/router"
	"carechat-backend/internal/services"
	"carechat-backend/web"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	// ──── Step 2: Initialize Logging ────
	log, err := logging.Init(cfg)
	if err != nil {
		log.Warn("log file unavailable, using stderr", slog.Any("error", err))
	}
	log.Info("starting carechat relay", slog.String("env", cfg.Env))

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; relay requests will fail with a configuration error")
	}

	// ──── Step 3: Initialize Gemini Relay ────
	geminiService := services.NewGeminiService(nil, cfg.GeminiBaseURL, cfg.GeminiAPIVersion, cfg.GeminiAPIKey, log)
	relayService := services.NewRelayService(geminiService, cfg.GeminiAllowedModels, log)
	log.Info("gemini relay ready",
		slog.String("base_url", cfg.GeminiBaseURL),
		slog.String("api_version", cfg.GeminiAPIVersion),
		slog.Any("allowed_models", relayService.AllowedModels()))

	// ──── Step 4: Initialize Handlers ────
	relayHandler := handlers.NewRelayHandler(relayService, log)

	var relayLimiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		relayLimiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer relayLimiter.Stop()
		log.Info("relay rate limit enabled", slog.Int("per_minute", cfg.RateLimitPerMinute))
	}

	var static fs.FS = web.Static()
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
		log.Info("serving static files from disk", slog.String("dir", cfg.StaticDir))
	}

	// ──── Step 5: Start HTTP Server ────
	r := router.New(relayHandler, relayLimiter, static, cfg.CORSAllowedOrigins, log)

	// No WriteTimeout: a relay request lasts as long as its upstream call.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Info("carechat relay listening",
		slog.String("url", fmt.Sprintf("http://localhost:%s", cfg.Port)),
		slog.String("relay", fmt.Sprintf("http://localhost:%s/api/gemini", cfg.Port)))

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

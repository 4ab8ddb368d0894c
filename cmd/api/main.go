package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/dreambound/internal/config"
	"github.com/jwebster45206/dreambound/internal/engine"
	"github.com/jwebster45206/dreambound/internal/handlers"
	"github.com/jwebster45206/dreambound/internal/logger"
	"github.com/jwebster45206/dreambound/internal/services"
	"github.com/jwebster45206/dreambound/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Dreambound API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model", cfg.GeminiModel,
		"slot", cfg.SaveSlot)

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	var narrator services.Generator
	if cfg.MockNarrator {
		narrator = services.NewMockGenerator()
		log.Warn("Using mock narrator, set GEMINI_API_KEY for live narration")
	} else {
		gemini, err := services.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiLiteModel, log)
		if err != nil {
			log.Error("Failed to initialize narrator", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		narrator = gemini
		log.Info("Using Gemini narrator", "model", cfg.GeminiModel, "lite_model", cfg.GeminiLiteModel)
	}
	// Narration failures fall back to canned text so a flaky backend
	// never blocks a turn.
	narrator = services.NewFallbackGenerator(narrator, log)

	eng := engine.New(narrator, store, cfg.SaveSlot, logger.WithSlot(log, cfg.SaveSlot))

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(eng, log)
	mux.Handle("/v1/game/", gameHandler)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset; narrator calls can outlive any
		// sensible fixed write deadline.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

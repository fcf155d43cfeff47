package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/life-engine/internal/config"
	"github.com/jwebster45206/life-engine/internal/handlers"
	"github.com/jwebster45206/life-engine/internal/logger"
	"github.com/jwebster45206/life-engine/internal/middleware"
	internalstorage "github.com/jwebster45206/life-engine/internal/storage"
	"github.com/jwebster45206/life-engine/pkg/engine"
	"github.com/jwebster45206/life-engine/pkg/storage"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg)

	log.Info("Starting Life Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	var store storage.Storage = internalstorage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, cfg.SessionTTL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	eng := engine.New(nil, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, eng, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	catalogHandler := handlers.NewCatalogHandler(store, log)
	mux.Handle("/v1/catalogs", catalogHandler)
	mux.Handle("/v1/catalogs/", catalogHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	// Close storage connection
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}

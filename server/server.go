// Package server wires the application components together and runs the
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-url-shortener/config"
	"go-url-shortener/handlers"
	"go-url-shortener/ratelimit"
	"go-url-shortener/services"
	"go-url-shortener/storage"
	"go-url-shortener/urlgen"
)

// Run builds the storage backend, service, and handlers from the
// configuration, then serves until an interrupt or termination signal
// arrives.
func Run(logger *zap.Logger, cfg *config.Config) error {
	store, err := setupStorage(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", zap.Error(err))
		return err
	}
	defer store.Close()

	urlHandler, err := setupURLHandler(cfg, store, logger)
	if err != nil {
		return err
	}

	router := setupRouter(urlHandler, cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go startServer(srv, logger)

	return waitForShutdown(srv, logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.Info("Using in-memory storage")
		return storage.NewInMemoryStorage(logger), nil
	default:
		return storage.Connect(&cfg.Redis, logger)
	}
}

func setupURLHandler(cfg *config.Config, store storage.Storage, logger *zap.Logger) (handlers.URLHandlerInterface, error) {
	gen, err := urlgen.New(cfg.ShortCodeLength)
	if err != nil {
		logger.Error("Failed to create code generator", zap.Error(err))
		return nil, err
	}

	urlService := services.NewURLService(store, gen, cfg.DefaultTTL, logger)

	var limiter *ratelimit.Limiter
	if !cfg.DisableRateLimit {
		limiter = ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.CleanupInterval, logger)
	}

	handler, err := handlers.NewURLHandler(urlService, store, cfg, limiter, logger)
	if err != nil {
		logger.Error("Failed to create URL handler", zap.Error(err))
		return nil, err
	}
	return handler, nil
}

func setupRouter(urlHandler handlers.URLHandlerInterface, cfg *config.Config) *gin.Engine {
	router := gin.New()
	// Recovery converts any unhandled panic into a bare 500 with no
	// detail leakage.
	router.Use(gin.Recovery())
	handlers.RegisterRoutes(router, urlHandler, cfg)
	return router
}

func startServer(srv *http.Server, logger *zap.Logger) {
	logger.Info("Starting server", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", zap.Error(err))
	}
	logger.Debug("Server stopped")
}

func waitForShutdown(srv *http.Server, logger *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Received shutdown signal. Initiating server shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server gracefully stopped")
	return nil
}

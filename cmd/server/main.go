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

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/api"
	"github.com/brandpulse/social-insights/internal/cms"
	"github.com/brandpulse/social-insights/internal/config"
	"github.com/brandpulse/social-insights/internal/ingest"
	"github.com/brandpulse/social-insights/internal/notifications"
	"github.com/brandpulse/social-insights/internal/resolver"
	"github.com/brandpulse/social-insights/internal/scheduler"
	"github.com/brandpulse/social-insights/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Social Insights API")

	store, err := newObjectStore(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	repo := storage.NewRepository(store)
	res := resolver.New(repo)
	cmsService := cms.NewService(repo, res)
	notificationService := notifications.NewService(cfg)
	classifier := ingest.NewClassifierClient(cfg.ClassifierAPIURL, time.Duration(cfg.ClassifierTimeout)*time.Second)
	ingestService := ingest.NewService(cfg, repo, res, classifier, notificationService)

	schedulerService := scheduler.NewService(cfg, repo, ingestService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	apiServer := api.NewServer(cfg, repo, res, cmsService, ingestService)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// newObjectStore picks the storage backend from configuration. The memory
// backend exists for local development and keeps nothing across restarts.
func newObjectStore(cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageBackend {
	case "azure":
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewMinioStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	case "memory":
		logrus.Warn("Using in-memory storage; data will not survive a restart")
		return storage.NewMemoryStorage(), nil
	}
	return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/item-cache-service/configs"
	"github.com/avatarctic/item-cache-service/internal/application/services"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/db"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/health"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/httpserver"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/metrics"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting item cache service...")

	// Initialize database (apply pool settings from config)
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.WithField("driver", database.Driver).Info("Connected to database successfully")

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations:", err)
	}

	backend, err := newCacheBackend(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache:", err)
	}
	defer func() {
		if err := backend.close(); err != nil {
			logger.WithError(err).Warn("Failed to close cache")
		}
	}()

	cacheMetrics, err := metrics.NewCacheMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		logger.Fatal("Failed to register cache metrics:", err)
	}
	cache := metrics.NewInstrumentedCache(backend.store, cacheMetrics)

	itemRepo := repositories.NewItemRepository(database, logger)
	itemService := services.NewItemService(itemRepo, cache, services.ItemCachePolicy{
		TTL:                     cfg.Cache.TTL,
		EvictAggregatesOnCreate: cfg.Cache.EvictAggregatesOnCreate,
	}, logger)

	logger.WithFields(logrus.Fields{
		"cache_driver": cfg.Cache.Driver,
		"cache_ttl":    cfg.Cache.TTL.String(),
	}).Info("Item cache configured")

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database)}
	if backend.checker != nil {
		hcSlice = append(hcSlice, backend.checker)
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		TLSCertFile:    cfg.Server.TLSCertFile,
		TLSKeyFile:     cfg.Server.TLSKeyFile,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	deps := httpserver.ServerDeps{
		ItemService:    itemService,
		HealthCheckers: hcSlice,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	// Drop our namespaces from a shared cache on exit.
	if cfg.Cache.FlushOnShutdown {
		if err := itemService.Flush(ctx); err != nil {
			logger.WithError(err).Warn("Failed to flush item cache")
		} else {
			logger.Info("Item cache flushed")
		}
	}

	logger.Info("Server exited")
}

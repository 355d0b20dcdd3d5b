package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	config "github.com/avatarctic/item-cache-service/configs"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/health"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/memcache"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/memory"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/redis"
)

// cacheBackend is the cache store selected by CACHE_DRIVER together with its
// health checker (nil for the in-process store) and a close function.
type cacheBackend struct {
	store   ports.CacheStore
	checker ports.HealthChecker
	close   func() error
}

func newCacheBackend(cfg *config.Config, logger *logrus.Logger) (*cacheBackend, error) {
	switch cfg.Cache.Driver {
	case "redis":
		client, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Connected to Redis successfully")
		return &cacheBackend{
			store:   redis.NewRedisCache(client, cfg.Cache.KeyPrefix),
			checker: health.NewRedisHealthChecker(client),
			close:   client.Close,
		}, nil
	case "memcache":
		client := memcache.NewClient(&cfg.Memcache)
		logger.WithField("servers", cfg.Memcache.Servers).Info("Using memcache cache")
		return &cacheBackend{
			store:   memcache.NewMemcacheCache(client, cfg.Cache.KeyPrefix),
			checker: health.NewMemcacheHealthChecker(client),
			close:   func() error { return nil },
		}, nil
	case "memory":
		store := memory.NewMemoryCache(memory.WithJanitor(cfg.Cache.JanitorInterval))
		logger.Info("Using in-process memory cache")
		return &cacheBackend{store: store, close: store.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver %q", cfg.Cache.Driver)
	}
}

package health

import (
	"context"

	"github.com/avatarctic/item-cache-service/internal/core/ports"
	infraDB "github.com/avatarctic/item-cache-service/internal/infrastructure/db"
	"github.com/bradfitz/gomemcache/memcache"
	"github.com/go-redis/redis/v8"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// memcacheHealthChecker wraps the memcache client; gomemcache has no context support.
type memcacheHealthChecker struct{ client *memcache.Client }

func (m *memcacheHealthChecker) Name() string { return "memcache" }
func (m *memcacheHealthChecker) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.client.Ping()
}

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewMemcacheHealthChecker creates a health checker for memcached.
func NewMemcacheHealthChecker(client *memcache.Client) ports.HealthChecker {
	return &memcacheHealthChecker{client: client}
}

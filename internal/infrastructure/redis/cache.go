package redis

import (
	"context"
	"strings"
	"time"

	"github.com/avatarctic/item-cache-service/internal/core/ports"
	"github.com/go-redis/redis/v8"
)

// evictBatchSize bounds both the SCAN page hint and the size of each DEL.
const evictBatchSize = 256

// RedisCache implements ports.CacheStore using a Redis client.
// Keys are laid out as <prefix>:<namespace>::<key>.
type RedisCache struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

// NewRedisCache creates a new Redis-backed cache.
func NewRedisCache(r redis.Cmdable, prefix string) *RedisCache {
	return &RedisCache{r: r, prefix: prefix}
}

func (c *RedisCache) namespacePrefix(namespace string) string {
	if c.prefix == "" {
		return namespace + "::"
	}
	return c.prefix + ":" + namespace + "::"
}

func (c *RedisCache) namespaced(namespace, key string) string {
	return c.namespacePrefix(namespace) + key
}

// Get implements CacheStore.Get.
func (c *RedisCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(namespace, key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Put implements CacheStore.Put. Redis expires the key on its own, so TTLs are absolute.
func (c *RedisCache) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 {
		return nil
	}
	return c.r.Set(ctx, c.namespaced(namespace, key), value, ttl).Err()
}

// Evict implements CacheStore.Evict.
func (c *RedisCache) Evict(ctx context.Context, namespace, key string) error {
	return c.r.Del(ctx, c.namespaced(namespace, key)).Err()
}

// EvictAll implements CacheStore.EvictAll by scanning the namespace prefix.
// On a cluster client SCAN only visits one node; use a per-node client there.
func (c *RedisCache) EvictAll(ctx context.Context, namespace string) error {
	pattern := escapeGlob(c.namespacePrefix(namespace)) + "*"
	iter := c.r.Scan(ctx, 0, pattern, evictBatchSize).Iterator()

	batch := make([]string, 0, evictBatchSize)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == evictBatchSize {
			if err := c.r.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.r.Del(ctx, batch...).Err()
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

var _ ports.CacheStore = (*RedisCache)(nil)

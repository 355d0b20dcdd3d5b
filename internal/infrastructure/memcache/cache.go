package memcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	config "github.com/avatarctic/item-cache-service/configs"
	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// maxKeyLength is memcached's key length limit.
const maxKeyLength = 250

// Client is the subset of *memcache.Client used by the cache.
type Client interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Add(item *memcache.Item) error
	Increment(key string, delta uint64) (uint64, error)
	Delete(key string) error
}

// MemcacheCache implements ports.CacheStore on memcached.
//
// Memcached cannot enumerate keys, so each namespace carries a generation
// counter that is part of every physical key. EvictAll bumps the generation;
// entries of older generations become unreachable and age out with their TTL.
type MemcacheCache struct {
	mc     Client
	prefix string
	now    func() time.Time
}

// NewClient builds a memcache client from configuration.
func NewClient(cfg *config.MemcacheConfig) *memcache.Client {
	mc := memcache.New(cfg.Servers...)
	if cfg.Timeout > 0 {
		mc.Timeout = cfg.Timeout
	}
	if cfg.MaxIdleConns > 0 {
		mc.MaxIdleConns = cfg.MaxIdleConns
	}
	return mc
}

// NewMemcacheCache creates a new memcache-backed cache.
func NewMemcacheCache(mc Client, prefix string) *MemcacheCache {
	return &MemcacheCache{mc: mc, prefix: prefix, now: time.Now}
}

func (c *MemcacheCache) generationKey(namespace string) string {
	return c.safeKey(c.prefix + ":" + namespace + ":gen")
}

// generation returns the current generation of namespace, seeding it when absent.
// Seeds come from the clock so a lost counter never resurrects older entries.
func (c *MemcacheCache) generation(namespace string) (string, error) {
	key := c.generationKey(namespace)
	it, err := c.mc.Get(key)
	if err == nil {
		return string(it.Value), nil
	}
	if !errors.Is(err, memcache.ErrCacheMiss) {
		return "", err
	}
	seed := strconv.FormatInt(c.now().UnixNano(), 10)
	err = c.mc.Add(&memcache.Item{Key: key, Value: []byte(seed)})
	if errors.Is(err, memcache.ErrNotStored) {
		// lost the race with another writer, use theirs
		it, err = c.mc.Get(key)
		if err != nil {
			return "", err
		}
		return string(it.Value), nil
	}
	if err != nil {
		return "", err
	}
	return seed, nil
}

func (c *MemcacheCache) physicalKey(namespace, key string) (string, error) {
	gen, err := c.generation(namespace)
	if err != nil {
		return "", err
	}
	return c.safeKey(c.prefix + ":" + namespace + ":" + gen + "::" + key), nil
}

// safeKey hashes keys memcached would reject.
func (c *MemcacheCache) safeKey(key string) string {
	if len(key) <= maxKeyLength && !strings.ContainsFunc(key, func(r rune) bool { return r <= ' ' || r == 0x7f }) {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return c.prefix + ":h:" + hex.EncodeToString(sum[:])
}

// maxRelativeExpiration is the largest relative expiry memcached accepts; larger
// values are read as absolute unix timestamps.
const maxRelativeExpiration = 30 * 24 * time.Hour

// expiration converts a TTL into memcached's whole-second expiry, switching to
// an absolute unix time past the 30 day relative limit.
func expiration(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}
	secs := (ttl + time.Second - 1) / time.Second
	if secs*time.Second > maxRelativeExpiration {
		return int32(now.Add(secs * time.Second).Unix())
	}
	return int32(secs)
}

// Get implements CacheStore.Get.
func (c *MemcacheCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	pk, err := c.physicalKey(namespace, key)
	if err != nil {
		return nil, false, err
	}
	it, err := c.mc.Get(pk)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return it.Value, true, nil
}

// Put implements CacheStore.Put.
func (c *MemcacheCache) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 {
		return nil
	}
	pk, err := c.physicalKey(namespace, key)
	if err != nil {
		return err
	}
	return c.mc.Set(&memcache.Item{Key: pk, Value: value, Expiration: expiration(ttl, c.now())})
}

// Evict implements CacheStore.Evict.
func (c *MemcacheCache) Evict(ctx context.Context, namespace, key string) error {
	pk, err := c.physicalKey(namespace, key)
	if err != nil {
		return err
	}
	err = c.mc.Delete(pk)
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}

// EvictAll implements CacheStore.EvictAll by moving the namespace to a new generation.
func (c *MemcacheCache) EvictAll(ctx context.Context, namespace string) error {
	key := c.generationKey(namespace)
	_, err := c.mc.Increment(key, 1)
	if errors.Is(err, memcache.ErrCacheMiss) {
		seed := strconv.FormatInt(c.now().UnixNano(), 10)
		return c.mc.Set(&memcache.Item{Key: key, Value: []byte(seed)})
	}
	return err
}

var _ ports.CacheStore = (*MemcacheCache)(nil)

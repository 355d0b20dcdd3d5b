package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avatarctic/item-cache-service/internal/core/ports"
)

// entry is immutable once stored; a Put replaces it wholesale.
type entry struct {
	value    []byte
	expireAt time.Time // zero => no TTL
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// Option configures a MemoryCache.
type Option func(*MemoryCache)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *MemoryCache) { c.now = now }
}

// WithJanitor removes expired entries every interval until Close is called.
func WithJanitor(interval time.Duration) Option {
	return func(c *MemoryCache) { c.janitorInterval = interval }
}

// MemoryCache is an in-process ports.CacheStore. Expired entries are treated as
// absent on read and dropped lazily or by the janitor.
type MemoryCache struct {
	mu         sync.RWMutex
	namespaces map[string]map[string]entry
	now        func() time.Time

	janitorInterval time.Duration
	stop            chan struct{}
	done            chan struct{}
	closeOnce       sync.Once
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		namespaces: make(map[string]map[string]entry),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.janitorInterval > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.runJanitor()
	}
	return c
}

// Get implements CacheStore.Get.
func (c *MemoryCache) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.namespaces[namespace][key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		// re-check, a concurrent Put may have replaced it
		if cur, ok := c.namespaces[namespace][key]; ok && cur.expired(c.now()) {
			delete(c.namespaces[namespace], key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Put implements CacheStore.Put.
func (c *MemoryCache) Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error {
	if len(value) == 0 {
		return nil
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		ns = make(map[string]entry)
		c.namespaces[namespace] = ns
	}
	ns[key] = e
	return nil
}

// Evict implements CacheStore.Evict.
func (c *MemoryCache) Evict(ctx context.Context, namespace, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.namespaces[namespace], key)
	return nil
}

// EvictAll implements CacheStore.EvictAll.
func (c *MemoryCache) EvictAll(ctx context.Context, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.namespaces, namespace)
	return nil
}

// Len returns the number of stored entries, expired ones included until they are swept.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, ns := range c.namespaces {
		n += len(ns)
	}
	return n
}

// DeleteExpired sweeps every expired entry.
func (c *MemoryCache) DeleteExpired() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, ns := range c.namespaces {
		for k, e := range ns {
			if e.expired(now) {
				delete(ns, k)
			}
		}
		if len(ns) == 0 {
			delete(c.namespaces, name)
		}
	}
}

func (c *MemoryCache) runJanitor() {
	defer close(c.done)
	ticker := time.NewTicker(c.janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Close stops the janitor. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.closeOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
			<-c.done
		}
	})
	return nil
}

var _ ports.CacheStore = (*MemoryCache)(nil)

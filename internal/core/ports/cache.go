package ports

import (
	"context"
	"time"
)

// CacheStore defines a namespaced key-value cache contract with absolute TTLs.
// Implementations should degrade gracefully (returning an error without crashing callers)
// so that application logic can fall back to the record store.
type CacheStore interface {
	// Get returns the raw bytes for key in namespace. ok=false if absent or expired.
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	// Put overwrites the entry for key with an absolute TTL. Empty values are not stored.
	Put(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) error
	// Evict removes one key; absence is not an error.
	Evict(ctx context.Context, namespace, key string) error
	// EvictAll removes every entry under namespace.
	EvictAll(ctx context.Context, namespace string) error
}

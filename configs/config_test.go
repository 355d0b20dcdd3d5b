package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "redis", cfg.Cache.Driver)
	require.Equal(t, 10*time.Second, cfg.Cache.TTL)
	require.Equal(t, "itemcache", cfg.Cache.KeyPrefix)
	require.True(t, cfg.Cache.FlushOnShutdown)
	require.False(t, cfg.Cache.EvictAggregatesOnCreate)
	require.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=items_db sslmode=disable", cfg.Database.DSN)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("CACHE_TTL", "2s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/x.db")
	t.Setenv("MEMCACHE_SERVERS", "a:1,b:2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Cache.Driver)
	require.Equal(t, 2*time.Second, cfg.Cache.TTL)
	require.Equal(t, []string{"a:1", "b:2"}, cfg.Memcache.Servers)
	require.Contains(t, cfg.Database.DSN, "/tmp/x.db?")
}

func TestLoad_ExplicitDSNWins(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@db/items")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@db/items", cfg.Database.DSN)
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "etcd")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "0s")
	_, err := Load()
	require.Error(t, err)
}

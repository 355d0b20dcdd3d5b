package redis_test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	config "github.com/avatarctic/item-cache-service/configs"
	"github.com/avatarctic/item-cache-service/internal/infrastructure/redis"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewRedisClient(&config.RedisConfig{Host: mr.Host(), Port: mr.Port(), PoolSize: 2})
	require.NoError(t, err)
	require.NoError(t, client.Close())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := redis.NewRedisClient(&config.RedisConfig{Host: host, Port: port})
	require.Error(t, err)
}

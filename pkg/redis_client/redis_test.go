package redis_client

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUse(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	require.NoError(t, Use(client))
	assert.Same(t, client, Client)
	assert.NotNil(t, QueueConnection)
}

func TestConfigured(t *testing.T) {
	t.Setenv("ROADSAFETY_REDIS_ADDRESS", "")
	assert.False(t, Configured())

	t.Setenv("ROADSAFETY_REDIS_ADDRESS", "localhost:6379")
	assert.True(t, Configured())
}

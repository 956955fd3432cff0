package elastic_client

import (
	"strings"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("ROADSAFETY_ELASTICSEARCH_ADDRESS", "http://archive:9200")
	t.Setenv("ROADSAFETY_ELASTICSEARCH_USERNAME", "elastic")
	t.Setenv("ROADSAFETY_ELASTICSEARCH_PASSWORD", "changeme")

	assert.Equal(t, Config{
		Address:  "http://archive:9200",
		Username: "elastic",
		Password: "changeme",
	}, ConfigFromEnvironment())
}

func TestConnectWithoutAddress(t *testing.T) {
	t.Setenv("ROADSAFETY_ELASTICSEARCH_ADDRESS", "")

	require.NoError(t, Connect(false))
	assert.False(t, Enabled())

	assert.NotPanics(t, func() {
		IndexRequest("road-safety-events-2024-03", strings.NewReader(`{}`))
		WaitUntilQueueEmpty()
	})
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{Address: "http://localhost:9200"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestRetryBackoffRestartsPerRequest(t *testing.T) {
	sequence := backoff.NewExponentialBackOff()
	sequence.InitialInterval = 100 * time.Millisecond
	sequence.Multiplier = 2
	sequence.RandomizationFactor = 0

	next := retryBackoff(sequence)

	assert.Equal(t, 100*time.Millisecond, next(1))
	assert.Equal(t, 200*time.Millisecond, next(2))
	assert.Equal(t, 400*time.Millisecond, next(3))

	assert.Equal(t, 100*time.Millisecond, next(1))
}

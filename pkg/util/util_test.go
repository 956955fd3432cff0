package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		value    string
		expected time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T14:30", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:05", time.Date(2024, 1, 15, 14, 30, 5, 0, time.UTC)},
		{"2024-01-15T14:30:00Z", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-01-15T16:30:00+02:00", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
	}

	for _, test := range tests {
		parsed, err := ParseDate(test.value)
		require.NoError(t, err, test.value)
		assert.True(t, test.expected.Equal(parsed), test.value)
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Interstate 95, Mile Marker 42", "interSTATE"))
	assert.False(t, ContainsFold("Main Street", "avenue"))
	assert.Equal(t, "Main", TrimString("Main Street", 4))
	assert.Equal(t, "Main", TrimString("Main", 10))
}

func TestEnvironmentOrDefault(t *testing.T) {
	env := map[string]string{"SET": "value", "EMPTY": ""}

	assert.Equal(t, "value", EnvironmentOrDefault(env, "SET", "fallback"))
	assert.Equal(t, "fallback", EnvironmentOrDefault(env, "EMPTY", "fallback"))
	assert.Equal(t, "fallback", EnvironmentOrDefault(env, "MISSING", "fallback"))
}

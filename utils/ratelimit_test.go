package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining = rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _ = rl.Allow("10.0.0.1")
	assert.False(t, ok)

	// Другие ключи считаются отдельно
	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok)

	assert.Equal(t, now.Add(time.Minute), rl.ResetTime("10.0.0.1"))

	now = now.Add(time.Minute + time.Second)
	ok, remaining = rl.Allow("10.0.0.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
}

func TestRateLimiter_Reset(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)

	ok, _ := rl.Allow("key")
	assert.True(t, ok)
	ok, _ = rl.Allow("key")
	assert.False(t, ok)

	rl.Reset("key")
	ok, _ = rl.Allow("key")
	assert.True(t, ok)
}

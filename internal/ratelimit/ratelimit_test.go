package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_BurstThenThrottle(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, krl.Allow("10.0.0.1"), "request %d within burst should pass", i)
	}
	assert.False(t, krl.Allow("10.0.0.1"), "request beyond burst should be throttled")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("10.0.0.1"))
	assert.False(t, krl.Allow("10.0.0.1"))

	// A different key has its own bucket.
	assert.True(t, krl.Allow("10.0.0.2"))
}

func TestEvictIdle(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	krl.Allow("10.0.0.1")

	krl.mu.Lock()
	krl.limiters["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	krl.mu.Unlock()

	krl.evictIdle()

	krl.mu.Lock()
	_, exists := krl.limiters["10.0.0.1"]
	krl.mu.Unlock()
	assert.False(t, exists)
}

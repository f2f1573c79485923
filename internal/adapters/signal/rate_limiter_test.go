package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoomRateLimiter(t *testing.T) {
	t.Parallel()

	rl := NewRoomRateLimiter(2, 100*time.Millisecond)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))

	// a different identity has its own window
	assert.True(t, rl.Allow("b"))

	// the window slides: old attempts expire
	time.Sleep(150 * time.Millisecond)
	assert.True(t, rl.Allow("a"))
}

package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_ResetRestartsSequence(t *testing.T) {
	b := newBackoff(ReconnectPolicy{InitialDelay: time.Second, MaxRetries: 3, BackoffFactor: 2})

	for _, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		got, ok := b.next()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	_, ok := b.next()
	assert.False(t, ok)

	b.reset()
	got, ok := b.next()
	assert.True(t, ok)
	assert.Equal(t, time.Second, got)
}

func TestBackoff_InitialDelayCapped(t *testing.T) {
	b := newBackoff(ReconnectPolicy{InitialDelay: time.Minute, MaxDelay: 5 * time.Second, MaxRetries: 1, BackoffFactor: 1.5})
	got, ok := b.next()
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, got)
}

func TestSleepContext(t *testing.T) {
	assert.True(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepContext(ctx, time.Hour))
	assert.False(t, sleepContext(ctx, 0))
}

package bridge

import (
	"context"
	"time"
)

// ReconnectPolicy defines the backoff strategy for failed connection attempts.
// A zero MaxDelay leaves the delay uncapped.
type ReconnectPolicy struct {
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	MaxRetries    int
	BackoffFactor float64
}

// DefaultReconnectPolicy waits 1s, 1.5s, 2.25s, ... up to 30s, eight times.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		MaxRetries:    8,
		BackoffFactor: 1.5,
	}
}

// backoff is the retry bookkeeping of one MaintainWebSocket call. It is only
// touched by the governing loop.
type backoff struct {
	policy  ReconnectPolicy
	retries int
	delay   time.Duration
}

func newBackoff(policy ReconnectPolicy) *backoff {
	b := &backoff{policy: policy}
	b.reset()
	return b
}

// next returns the delay before the next attempt, or false once MaxRetries
// attempts have been used.
func (b *backoff) next() (time.Duration, bool) {
	if b.retries >= b.policy.MaxRetries {
		return 0, false
	}
	b.retries++
	wait := b.delay

	grown := time.Duration(float64(b.delay) * b.policy.BackoffFactor)
	if b.policy.MaxDelay > 0 && grown > b.policy.MaxDelay {
		grown = b.policy.MaxDelay
	}
	b.delay = grown

	return wait, true
}

func (b *backoff) reset() {
	b.retries = 0
	b.delay = b.policy.InitialDelay
	if b.policy.MaxDelay > 0 && b.delay > b.policy.MaxDelay {
		b.delay = b.policy.MaxDelay
	}
}

// sleepContext waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

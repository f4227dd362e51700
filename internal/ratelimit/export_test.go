package ratelimit

import "time"

// SetClock replaces the bucket's time source.
func (tb *TokenBucket) SetClock(now func() time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.now = now
	tb.last = now()
}

package telegram

import (
	"sync"
	"time"
)

// RateLimiter is a per-user token bucket.
type RateLimiter struct {
	mu         sync.Mutex
	buckets    map[int64]*bucket
	maxTokens  float64
	refillRate float64 // tokens per second
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	maxTokens := float64(burst)
	if maxTokens <= 0 {
		maxTokens = 1
	}
	return &RateLimiter{
		buckets:    make(map[int64]*bucket),
		maxTokens:  maxTokens,
		refillRate: float64(requestsPerMinute) / 60.0,
	}
}

// Allow reports whether the user may send another message now.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[userID]
	if !ok {
		b = &bucket{tokens: rl.maxTokens, lastRefill: now}
		rl.buckets[userID] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * rl.refillRate
	if b.tokens > rl.maxTokens {
		b.tokens = rl.maxTokens
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

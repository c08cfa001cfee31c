package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	loginAttemptsLimit  = 10
	loginAttemptsWindow = 15 * time.Minute
)

// attemptLimiter tracks recent failures per key so credential guessing gets
// throttled without any external store.
type attemptLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

func newAttemptLimiter() *attemptLimiter {
	return &attemptLimiter{failures: make(map[string][]time.Time)}
}

func (limiter *attemptLimiter) tooManyRecent(key string, now time.Time, limit int, window time.Duration) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.pruneLocked(key, now, window)) >= limit
}

func (limiter *attemptLimiter) addFailure(key string, now time.Time, window time.Duration) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	limiter.failures[key] = append(limiter.pruneLocked(key, now, window), now)
}

func (limiter *attemptLimiter) reset(key string) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	delete(limiter.failures, key)
}

func (limiter *attemptLimiter) pruneLocked(key string, now time.Time, window time.Duration) []time.Time {
	recorded := limiter.failures[key]
	if len(recorded) == 0 {
		return nil
	}

	threshold := now.Add(-window)
	kept := recorded[:0]
	for _, at := range recorded {
		if at.After(threshold) {
			kept = append(kept, at)
		}
	}
	if len(kept) == 0 {
		delete(limiter.failures, key)
		return nil
	}

	limiter.failures[key] = kept
	return kept
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}

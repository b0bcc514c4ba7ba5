package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	pickerCreateLimit  = 30
	pickerCreateWindow = 10 * time.Minute
)

// createLimiter is a sliding-window counter of picker creations per client.
type createLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	created map[string][]time.Time
}

func newCreateLimiter(limit int, window time.Duration) *createLimiter {
	return &createLimiter{
		limit:   limit,
		window:  window,
		created: make(map[string][]time.Time),
	}
}

// allow records a creation for key unless the window is already full.
func (limiter *createLimiter) allow(key string, now time.Time) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	recent := limiter.pruneLocked(key, now)
	if len(recent) >= limiter.limit {
		return false
	}
	limiter.created[key] = append(recent, now)
	return true
}

func (limiter *createLimiter) pruneLocked(key string, now time.Time) []time.Time {
	values := limiter.created[key]
	if len(values) == 0 {
		return []time.Time{}
	}

	threshold := now.Add(-limiter.window)
	pruned := make([]time.Time, 0, len(values))
	for _, value := range values {
		if value.After(threshold) {
			pruned = append(pruned, value)
		}
	}

	if len(pruned) == 0 {
		delete(limiter.created, key)
		return []time.Time{}
	}

	limiter.created[key] = pruned
	return pruned
}

func requestLimiterKey(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.IP())
	if key == "" {
		return "unknown"
	}
	return key
}

package ratelimiter

import (
	"sync"
	"time"
)

// FixedWindowRateLimiter counts requests per client IP and refuses the
// ones past limit until the client's window resets. Good enough for the
// public checkout surface; there is no need for sliding precision here.
type FixedWindowRateLimiter struct {
	sync.RWMutex
	counts map[string]int // client IP -> requests in the current window
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		counts: make(map[string]int),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the client may proceed; when refused it returns
// how long until the window resets.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.RLock()
	count, exists := rl.counts[ip]
	rl.RUnlock()

	if exists && count >= rl.limit {
		return false, rl.window
	}

	rl.Lock()
	defer rl.Unlock()

	// The window starts on a client's first request and one reset timer
	// runs per active client; idle clients hold no state.
	if _, ok := rl.counts[ip]; !ok {
		time.AfterFunc(rl.window, func() {
			rl.Lock()
			delete(rl.counts, ip)
			rl.Unlock()
		})
	}
	rl.counts[ip]++
	return true, 0
}

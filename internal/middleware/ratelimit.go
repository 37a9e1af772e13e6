package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edifyminds/edify-backend/internal/response"
)

// RateLimiter counts requests per client IP in fixed windows. The count
// resets when a new window opens.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCount
	limit   int
	window  time.Duration
}

type windowCount struct {
	start time.Time
	seen  int
}

// NewRateLimiter creates a limiter allowing limit requests per window
// for each client IP.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*windowCount),
		limit:   limit,
		window:  window,
	}
	go rl.evictLoop()
	return rl
}

// Middleware returns a Gin middleware enforcing the limit by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	wc, ok := rl.clients[ip]
	if !ok || now.Sub(wc.start) >= rl.window {
		rl.clients[ip] = &windowCount{start: now, seen: 1}
		return true
	}
	if wc.seen >= rl.limit {
		return false
	}
	wc.seen++
	return true
}

// evictLoop drops IPs whose window lapsed two periods ago.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-2 * rl.window)
		rl.mu.Lock()
		for ip, wc := range rl.clients {
			if wc.start.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

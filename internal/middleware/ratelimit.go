// ratelimit.go enforces per-client token-bucket rate limits. Two tiers are
// wired by the router: a strict one on the login endpoint to slow credential
// stuffing, and a general one on the authenticated inventory API sized for
// editors doing bulk asset maintenance.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for one rate-limit tier
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained refill rate
	RequestsPerMinute int
	// BurstSize is the bucket capacity
	BurstSize int
	// CleanupInterval is how often idle client buckets are evicted
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig sizes the general API tier. Bulk edits and list
// pages fire bursts of requests, so the bucket is generous.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 200,
		BurstSize:         50,
		CleanupInterval:   5 * time.Minute,
	}
}

// LoginRateLimitConfig sizes the login tier: ten password attempts per
// minute per client is plenty for humans and useless for brute force.
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 10,
		BurstSize:         5,
		CleanupInterval:   5 * time.Minute,
	}
}

// bucket tracks the remaining tokens for a single client
type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

// RateLimiter implements a token-bucket limiter keyed by user or client IP
type RateLimiter struct {
	config  RateLimitConfig
	buckets map[string]*bucket
	mu      sync.RWMutex
	stopCh  chan struct{}
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		buckets: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}
	go rl.evictIdle()
	return rl
}

// evictIdle drops buckets that have been idle long enough to be full again,
// so the map does not grow with every probe scraper and one-off client.
func (rl *RateLimiter) evictIdle() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			rl.mu.Lock()
			for key, b := range rl.buckets {
				if now.Sub(b.lastUpdate) > 10*time.Minute {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

// Stop terminates the eviction goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// refilled returns the bucket's token count after crediting elapsed time,
// capped at the burst size. Caller holds the lock.
func (rl *RateLimiter) refilled(b *bucket, now time.Time) float64 {
	perSecond := float64(rl.config.RequestsPerMinute) / 60.0
	credit := now.Sub(b.lastUpdate).Seconds() * perSecond
	return min(float64(rl.config.BurstSize), b.tokens+credit)
}

// Allow consumes one token for the key, reporting whether the request may
// proceed. An unseen key starts with a full bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.buckets[key]
	if !exists {
		rl.buckets[key] = &bucket{
			tokens:     float64(rl.config.BurstSize) - 1,
			lastUpdate: now,
		}
		return true
	}

	b.tokens = rl.refilled(b, now)
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RemainingTokens reports the key's current token count without consuming
func (rl *RateLimiter) RemainingTokens(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[key]
	if !exists {
		return rl.config.BurstSize
	}
	return int(rl.refilled(b, time.Now()))
}

// RateLimitMiddleware rejects requests over the tier's limit with 429 and
// standard X-RateLimit headers
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rateLimitKey(c)

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.RemainingTokens(key)))
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": 60,
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.RemainingTokens(key)))

		c.Next()
	}
}

// rateLimitKey buckets by authenticated user when available so a shared NAT
// full of viewers does not starve one another; anonymous requests (login)
// fall back to the client IP.
func rateLimitKey(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok && id != "" {
			return "user:" + id
		}
	}

	ip := c.ClientIP()
	if ip == "" {
		ip = c.Request.RemoteAddr
	}
	return "ip:" + ip
}

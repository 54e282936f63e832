package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/aqall/publisher/internal/api/models"
	"github.com/aqall/publisher/internal/config"
)

// Admission control for routes that end in a registrar write.
//
// Rate limiting is applied at two levels:
//   - Global: every client together, protecting the registrar quota
//   - IP: per client address, so one client cannot starve the others
//
// Both levels are token buckets; a request must pass both.

// RateLimiter combines a global and a per-IP limiter.
type RateLimiter struct {
	global *rate.Limiter // nil when disabled
	ip     *keyedLimiter // nil when disabled
}

// NewRateLimiter creates a RateLimiter from cfg.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{}
	if cfg.GlobalRPS > 0 && cfg.GlobalBurst > 0 {
		rl.global = rate.NewLimiter(rate.Limit(cfg.GlobalRPS), cfg.GlobalBurst)
	}
	if cfg.IPRPS > 0 && cfg.IPBurst > 0 {
		rl.ip = newKeyedLimiter(rate.Limit(cfg.IPRPS), cfg.IPBurst, cfg.MaxIPEntries, time.Minute)
	}
	return rl
}

// Allow reports whether a request from clientIP may proceed and consumes
// a token from each level when it does.
func (r *RateLimiter) Allow(clientIP string) bool {
	if r == nil {
		return true
	}
	// Fail fast on the global level.
	if r.global != nil && !r.global.Allow() {
		return false
	}
	return r.ip == nil || r.ip.allow(clientIP)
}

// FormatRateLimitsLog returns a human-readable summary of cfg.
func FormatRateLimitsLog(cfg config.RateLimitConfig) string {
	level := func(name string, rps float64, burst int) string {
		if rps <= 0 || burst <= 0 {
			return name + "=disabled"
		}
		return fmt.Sprintf("%s=%grps/%d", name, rps, burst)
	}
	return fmt.Sprintf("%s %s max_ip=%d",
		level("global", cfg.GlobalRPS, cfg.GlobalBurst),
		level("ip", cfg.IPRPS, cfg.IPBurst),
		cfg.MaxIPEntries,
	)
}

// RateLimit rejects requests over the limit with 429.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "Too many requests",
				Message: "slow down and retry shortly",
				Code:    models.CodeRateLimited,
			})
			return
		}
		c.Next()
	}
}

// keyedLimiter keeps one token bucket per key. Idle buckets are dropped on
// a cleanup pass; when maxEntries is reached the stalest bucket is evicted.
type keyedLimiter struct {
	limit      rate.Limit
	burst      int
	maxEntries int
	idle       time.Duration
	now        func() time.Time

	mu          sync.Mutex
	lastCleanup time.Time
	buckets     map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newKeyedLimiter(limit rate.Limit, burst, maxEntries int, idle time.Duration) *keyedLimiter {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &keyedLimiter{
		limit:       limit,
		burst:       burst,
		maxEntries:  maxEntries,
		idle:        idle,
		now:         time.Now,
		lastCleanup: time.Now(),
		buckets:     map[string]*bucket{},
	}
}

func (k *keyedLimiter) allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastCleanup) >= k.idle {
		k.cleanup(now)
	}

	b, ok := k.buckets[key]
	if !ok {
		if len(k.buckets) >= k.maxEntries {
			k.evictOldest()
		}
		b = &bucket{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// cleanup must be called with mu held.
func (k *keyedLimiter) cleanup(now time.Time) {
	for key, b := range k.buckets {
		if now.Sub(b.lastSeen) >= k.idle {
			delete(k.buckets, key)
		}
	}
	k.lastCleanup = now
}

// evictOldest must be called with mu held.
func (k *keyedLimiter) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, b := range k.buckets {
		if oldestKey == "" || b.lastSeen.Before(oldest) {
			oldestKey, oldest = key, b.lastSeen
		}
	}
	delete(k.buckets, oldestKey)
}

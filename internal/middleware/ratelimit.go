// Package middleware provides HTTP middleware for the docgraph server.
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// maxBuckets is the maximum number of tracked IPs to prevent memory exhaustion.
const maxBuckets = 100_000

// Bucket eviction settings.
const (
	bucketSweepInterval = 5 * time.Minute
	bucketMaxIdle       = 10 * time.Minute
)

// RateLimiter is a token bucket per client IP. Tokens refill continuously
// at rate per second up to burst.
type RateLimiter struct {
	buckets map[string]*bucket
	mu      sync.Mutex
	rate    float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// take refills b for the time elapsed and consumes one token. When empty it
// returns the wait until the next token.
func (rl *RateLimiter) take(b *bucket, now time.Time) (bool, time.Duration) {
	b.tokens = math.Min(rl.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*rl.rate)
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	if rl.rate <= 0 {
		return false, time.Minute
	}

	return false, time.Duration((1 - b.tokens) / rl.rate * float64(time.Second))
}

// NewRateLimiter creates a RateLimiter with the given requests per second and burst size.
// It starts a background goroutine to evict idle buckets, which stops when ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
		now:     time.Now,
	}
	go rl.sweepLoop(ctx)

	return rl
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(bucketSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.lastSeen) > bucketMaxIdle {
			delete(rl.buckets, ip)
		}
	}
}

// Handler returns Gin middleware that applies rate limiting per client IP.
// Rejections carry a Retry-After header in whole seconds.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	limit := strconv.Itoa(int(rl.rate))

	return func(c *gin.Context) {
		// ClientIP ignores forwarding headers because the router trusts no proxies.
		ip := c.ClientIP()
		now := rl.now()

		rl.mu.Lock()
		b, ok := rl.buckets[ip]
		if !ok {
			if len(rl.buckets) >= maxBuckets {
				rl.mu.Unlock()
				respondError(c, http.StatusTooManyRequests, "rate_limited", "too many clients")

				return
			}

			b = &bucket{tokens: rl.burst, lastSeen: now}
			rl.buckets[ip] = b
		}

		allowed, wait := rl.take(b, now)
		rl.mu.Unlock()

		c.Header("X-RateLimit-Limit", limit)

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")

			return
		}

		c.Next()
	}
}

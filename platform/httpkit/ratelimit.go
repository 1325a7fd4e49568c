package httpkit

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"sales_crm_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// IPRateLimiter keeps one token bucket per key in memory.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter creates an in-memory token bucket limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{rate: r, burst: burst}
}

// NewWindowLimiter creates an in-memory limiter allowing roughly limit
// requests per window for each key.
func NewWindowLimiter(limit int, window time.Duration) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return NewIPRateLimiter(rate.Every(window/time.Duration(limit)), limit)
}

// Allow implements Limiter.
func (i *IPRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	limiter, _ := i.limiters.LoadOrStore(key, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter).Allow(), nil
}

// RedisRateLimiter is a fixed-window counter shared by every API instance.
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewRedisRateLimiter creates a limiter allowing limit requests per window.
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
	}
}

// Allow implements Limiter.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

// RateLimit returns a middleware that limits requests per client IP.
// Limiter errors let the request through and are logged.
func RateLimit(limiter Limiter, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable", "error", err)
			}
			c.Next()
			return
		}

		if !allowed {
			if log != nil {
				log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			abortFailure(c, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		c.Next()
	}
}

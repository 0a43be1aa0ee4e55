package httpmiddleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"smartattendance/internal/response"
)

// TooManyRequestsMessage is sent when a client exceeds its budget.
const TooManyRequestsMessage = "Too many requests, please try again later."

// Limiter decides whether a request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) bool
}

// RateLimit returns gin handler enforcing per-IP limits.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !l.Allow(c.Request.Context(), ip) {
			response.Abort(c, http.StatusTooManyRequests, TooManyRequestsMessage)
			return
		}
		c.Next()
	}
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewMemoryLimiter allows max requests per window per key, refilling evenly across the window.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}

// RedisLimiter counts requests per key in fixed windows shared by every API instance.
type RedisLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter allows max requests per key per window.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		max:    int64(max),
		window: window,
		prefix: "attendance:ratelimit",
		now:    time.Now,
	}
}

// Allow fails open when redis is unavailable.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	slot := l.now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.Expire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		log.Warnf("rate limiter redis error, allowing request: %v", err)
		return true
	}
	return incr.Val() <= l.max
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const MsgRateLimited = "Rate limit exceeded"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP in process memory.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    r,
		burst:    b,
	}
}

// PerMinute converts a requests-per-minute budget into a token rate.
func PerMinute(requests int) rate.Limit {
	if requests <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(requests))
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup forgets visitors idle for longer than maxIdle and returns how many
// were removed.
func (l *IPRateLimiter) Cleanup(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > maxIdle {
			delete(l.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (l *IPRateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup(interval)
		}
	}
}

func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.Abort()
			c.String(http.StatusTooManyRequests, MsgRateLimited)
			return
		}
		c.Next()
	}
}

func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	return NewIPRateLimiter(r, b).Middleware()
}

// DistributedRateLimiter counts requests in a sliding window kept in a redis
// sorted set so limits hold across replicas.
type DistributedRateLimiter struct {
	redis  redis.Cmdable
	limits map[string]*RateLimit
}

type RateLimit struct {
	Rate    int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
	OnLimit func(*gin.Context)
}

func NewDistributedRateLimiter(redisClient redis.Cmdable) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		redis:  redisClient,
		limits: make(map[string]*RateLimit),
	}
}

func (rl *DistributedRateLimiter) CreateMiddleware(name string, limit *RateLimit) gin.HandlerFunc {
	rl.limits[name] = limit

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", name, limit.KeyFunc(c))

		allowed, err := rl.checkLimit(c.Request.Context(), key, limit)
		if err != nil {
			// fail open
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			if limit.OnLimit != nil {
				limit.OnLimit(c)
				return
			}

			c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
			c.Header("Retry-After", strconv.Itoa(int(limit.Window.Seconds())))
			c.Abort()
			c.String(http.StatusTooManyRequests, MsgRateLimited)
			return
		}

		c.Next()
	}
}

func (rl *DistributedRateLimiter) checkLimit(ctx context.Context, key string, limit *RateLimit) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - limit.Window.Nanoseconds()

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return countCmd.Val() < int64(limit.Rate), nil
}

func IPKeyFunc(c *gin.Context) string {
	return c.ClientIP()
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func setupTestGin() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doRequest(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	router := setupTestGin()
	router.Use(RateLimiter(rate.Limit(1), 1))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	if w := doRequest(router, "127.0.0.1:12345"); w.Code != http.StatusOK {
		t.Errorf("Expected first request to succeed, got status %d", w.Code)
	}

	w := doRequest(router, "127.0.0.1:12345")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected second request to be rate limited, got status %d", w.Code)
	}
	if w.Body.String() != MsgRateLimited {
		t.Errorf("Expected body %q, got %q", MsgRateLimited, w.Body.String())
	}
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	router := setupTestGin()
	router.Use(RateLimiter(rate.Limit(1), 1))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w1 := doRequest(router, "127.0.0.1:12345")
	w2 := doRequest(router, "192.168.1.1:12345")

	if w1.Code != http.StatusOK {
		t.Errorf("Expected first request to succeed, got status %d", w1.Code)
	}

	if w2.Code != http.StatusOK {
		t.Errorf("Expected second request from different IP to succeed, got status %d", w2.Code)
	}
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.get("10.0.0.1")
	limiter.get("10.0.0.2")

	limiter.mu.Lock()
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	limiter.mu.Unlock()

	if removed := limiter.Cleanup(time.Minute); removed != 1 {
		t.Errorf("Expected 1 visitor removed, got %d", removed)
	}
	if len(limiter.visitors) != 1 {
		t.Errorf("Expected 1 visitor left, got %d", len(limiter.visitors))
	}
}

func TestIPRateLimiter_RunCleanupStopsOnCancel(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		limiter.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestPerMinute(t *testing.T) {
	if got := PerMinute(60); got != rate.Limit(1) {
		t.Errorf("Expected 1 token per second, got %v", got)
	}
	if got := PerMinute(0); got != rate.Inf {
		t.Errorf("Expected unlimited rate for zero budget, got %v", got)
	}
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	return client, mr
}

func TestNewDistributedRateLimiter(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	limiter := NewDistributedRateLimiter(client)

	if limiter == nil {
		t.Fatal("Expected rate limiter to be created")
	}

	if limiter.redis != client {
		t.Error("Expected Redis client to be set")
	}

	if limiter.limits == nil {
		t.Error("Expected limits map to be initialized")
	}
}

func TestDistributedRateLimiter_AllowRequests(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	router := setupTestGin()
	limiter := NewDistributedRateLimiter(client)

	router.Use(limiter.CreateMiddleware("test", &RateLimit{
		Rate:    2,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	for i := 0; i < 2; i++ {
		if w := doRequest(router, "127.0.0.1:12345"); w.Code != http.StatusOK {
			t.Errorf("Expected request %d to succeed, got status %d", i+1, w.Code)
		}
	}

	w := doRequest(router, "127.0.0.1:12345")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be rate limited, got status %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("Expected X-RateLimit-Limit header 2, got %q", w.Header().Get("X-RateLimit-Limit"))
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Expected Retry-After header 60, got %q", w.Header().Get("Retry-After"))
	}

	if w := doRequest(router, "10.1.1.1:12345"); w.Code != http.StatusOK {
		t.Errorf("Expected request from another IP to succeed, got status %d", w.Code)
	}
}

func TestDistributedRateLimiter_OnLimit(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	router := setupTestGin()
	limiter := NewDistributedRateLimiter(client)

	router.Use(limiter.CreateMiddleware("custom", &RateLimit{
		Rate:    1,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
		OnLimit: func(c *gin.Context) {
			c.AbortWithStatus(http.StatusServiceUnavailable)
		},
	}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	doRequest(router, "127.0.0.1:12345")
	if w := doRequest(router, "127.0.0.1:12345"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected custom limit handler status 503, got %d", w.Code)
	}
}

func TestDistributedRateLimiter_RedisDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	mr.Close()

	router := setupTestGin()
	limiter := NewDistributedRateLimiter(client)

	router.Use(limiter.CreateMiddleware("test", &RateLimit{
		Rate:    1,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	}))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := doRequest(router, "127.0.0.1:12345")

	if w.Code != http.StatusOK {
		t.Errorf("Expected request to succeed when Redis is down (fail open), got status %d", w.Code)
	}

	if w.Header().Get("X-RateLimit-Error") != "true" {
		t.Error("Expected X-RateLimit-Error header when Redis is down")
	}
}

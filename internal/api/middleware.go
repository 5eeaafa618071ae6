package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"relaychat/internal/redis"
)

// NewRouter builds the gin engine with request logging and recovery. Only
// the peers in trustedProxies may set the client IP through forwarding
// headers; with none, rate limiting keys on the remote address.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Logger(), Recovery())
	return router, nil
}

// Recovery answers 500 with the generic apology when a handler panics.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"reply": InternalApology})
	})
}

// Limiter decides whether the client identified by key may send another
// request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects clients over the limiter's budget with 429. Limiter
// errors let the request through.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limiter error: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please retry later"})
			return
		}
		c.Next()
	}
}

// RedisLimiter counts requests per client in fixed redis-backed windows.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	if window < time.Second {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := l.now().Unix() / int64(l.window/time.Second)
	count, err := l.client.Hit(ctx, fmt.Sprintf("relaychat:ratelimit:%s:%d", key, bucket), l.window)
	if err != nil {
		return false, err
	}
	return count <= l.limit, nil
}

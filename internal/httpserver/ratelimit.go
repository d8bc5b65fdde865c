package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"freelancedesk/pkg/circuitbreaker"
)

const rateLimitWindow = time.Minute

// windowCounter counts hits on key inside a window that expires on its own.
type windowCounter interface {
	Hit(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

type redisCounter struct {
	rdb *redis.Client
}

func (r redisCounter) Hit(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimiter is a fixed-window per-IP limiter backed by Redis. Every
// instance behind a load balancer shares the same counters. After repeated
// Redis failures the breaker opens and requests pass without a round trip.
type RateLimiter struct {
	counter windowCounter
	breaker *circuitbreaker.Breaker
	limit   int64
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateLimiter(rdb *redis.Client, requestsPerMinute int, logger *zap.Logger) *RateLimiter {
	return newRateLimiter(redisCounter{rdb: rdb}, requestsPerMinute, logger)
}

func newRateLimiter(counter windowCounter, requestsPerMinute int, logger *zap.Logger) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 120
	}
	return &RateLimiter{
		counter: counter,
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		limit:   int64(requestsPerMinute),
		logger:  logger,
		now:     time.Now,
	}
}

// Allow reports whether clientIP may make another request in the current
// window. Redis errors let the request through.
func (l *RateLimiter) Allow(ctx context.Context, clientIP string) bool {
	bucket := l.now().Unix() / int64(rateLimitWindow/time.Second)
	key := "ratelimit:" + clientIP + ":" + strconv.FormatInt(bucket, 10)

	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	var n int64
	err := l.breaker.Do(func() error {
		var hitErr error
		n, hitErr = l.counter.Hit(ctx, key, rateLimitWindow)
		return hitErr
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return true
	}
	if err != nil {
		l.logger.Warn("Rate limiter unavailable, allowing request",
			zap.String("client_ip", clientIP),
			zap.Error(err),
		)
		return true
	}
	return n <= l.limit
}

func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(int(rateLimitWindow/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}

package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/BerylCAtieno/event-ideas-agent/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ideas:ratelimit"

// Limiter is a fixed-window counter kept in Redis, shared by every replica
// that points at the same instance.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

func New(rdb redis.Cmdable, limit int, window time.Duration) *Limiter {
	return &Limiter{
		rdb:    rdb,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

func (l *Limiter) key(client string) string {
	bucket := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s:%s:%d", keyPrefix, client, bucket)
}

// Allow counts one submission for client in the current window. On a Redis
// error it reports true along with the error.
func (l *Limiter) Allow(ctx context.Context, client string) (bool, error) {
	key := l.key(client)

	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("redis incr failure: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("redis expire failure: %w", err)
		}
	}
	return n <= l.limit, nil
}

// Middleware rejects clients over their budget with 429. Redis outages let
// requests through.
func Middleware(l *Limiter, m *observability.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		allowed, err := l.Allow(c.Request.Context(), ip)
		if err != nil {
			log.Warn("rate limiter unavailable", zap.String("client", ip), zap.Error(err))
		}
		if !allowed {
			m.RecordRateLimited()
			log.Info("rate limited", zap.String("client", ip), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please wait a moment before generating more ideas.",
			})
			return
		}
		c.Next()
	}
}

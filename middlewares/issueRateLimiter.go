package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"civiceye-be/i18n"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const issueLimitWindow = 24 * time.Hour

// Counter is the subset of the redis client the rate limiter uses.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// IssueRateLimiter allows each client IP limit issue creations per 24h.
func IssueRateLimiter(counter Counter, queuePrefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		lang := LangFrom(c)

		// Create individual key for each client
		clientKey := queuePrefix + ":" + c.ClientIP()

		count, err := counter.Incr(ctx, clientKey).Result()
		if err != nil {
			slog.Error("redis error incrementing issue count", "key", clientKey, "err", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgInternal)})
			return
		}

		// Set TTL only for the first increment
		if count == 1 {
			if err := counter.Expire(ctx, clientKey, issueLimitWindow).Err(); err != nil {
				slog.Error("redis error setting TTL", "key", clientKey, "err", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": i18n.T(lang, i18n.MsgInternal)})
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := counter.TTL(ctx, clientKey).Result()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       i18n.T(lang, i18n.MsgRateLimited),
				"retry_after": retryAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}

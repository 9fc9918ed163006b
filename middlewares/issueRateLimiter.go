package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const reportLimitWindow = 24 * time.Hour

// ReportRateLimiter caps report submissions per client IP per day. Counters
// live in Redis under "<queuePrefix>:<ip>". A nil client disables limiting.
func ReportRateLimiter(client *redis.Client, queuePrefix string, limit int) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := queuePrefix + ":" + c.ClientIP()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			slog.Error("rate limiter increment", "key", key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error incrementing count"})
			c.Abort()
			return
		}

		// First submission in the window starts the clock.
		if count == 1 {
			if err := client.Expire(ctx, key, reportLimitWindow).Err(); err != nil {
				slog.Error("rate limiter expire", "key", key, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "redis error setting TTL"})
				c.Abort()
				return
			}
		}

		if count > int64(limit) {
			retryAfter, _ := client.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

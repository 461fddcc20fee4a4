// api/middleware/rate_limiter.go

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/harvestlink/market/api/db"
	logger "github.com/harvestlink/market/api/logging"
)

// RateLimiter allows limit requests per client IP in every window of
// length per. If redis is unreachable the request is let through.
func RateLimiter(client redis.Cmdable, limit int, per time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := db.RateLimit(c.Request.Context(), client, c.ClientIP(), limit, per)
		if err != nil {
			logger.Error("Rate limiting failed", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Duration", per.String())

		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.Int("limit", limit),
				zap.Duration("per", per))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}

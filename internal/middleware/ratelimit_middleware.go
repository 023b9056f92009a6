package middleware

import (
	"context"
	"strconv"

	"classifieds-core/internal/redis"
	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"
	market_errors "classifieds-core/pkg/errors"

	"github.com/gin-gonic/gin"
)

// LimitFunc checks and consumes one unit of a user's quota.
type LimitFunc func(ctx context.Context, userID string) (*redis.RateLimitResult, error)

// RateLimit applies limit per authenticated user. It must run after AuthMiddleware.
// A limiter error lets the request through.
func RateLimit(limit LimitFunc, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit == nil {
			c.Next()
			return
		}
		userID, ok := services.UserIDFromContext(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		result, err := limit(c.Request.Context(), userID)
		if err != nil {
			_ = c.Error(err)
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			status, body := httpdto.ErrorFor(rateLimited(message))
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Next()
	}
}

func rateLimited(message string) error {
	if message == "" {
		return market_errors.ErrRateLimited
	}
	return market_errors.New(market_errors.KindRateLimited, message)
}

func ReportRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimit(nil, "")
	}
	return RateLimit(limiter.AllowReport, "report rate limit exceeded")
}

func AdminRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimit(nil, "")
	}
	return RateLimit(limiter.AllowAdminAction, "admin rate limit exceeded")
}

func MessageRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return RateLimit(nil, "")
	}
	return RateLimit(limiter.AllowMessage, "message rate limit exceeded")
}

// setRateLimitHeaders sets standard rate limit response headers
func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

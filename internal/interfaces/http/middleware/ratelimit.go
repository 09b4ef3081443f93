package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/logger"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateCounter counts hits per key in fixed windows. cache.MemoryRateCounter
// and cache.RedisRateCounter implement it.
type RateCounter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// RateLimiter allows limit requests per key in each window.
type RateLimiter struct {
	counter RateCounter
	limit   int64
	window  time.Duration
	scope   string
	message string
}

// NewRateLimiter builds a limiter. scope namespaces its keys so limiters that
// share a counter never mix buckets.
func NewRateLimiter(counter RateCounter, scope string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   int64(limit),
		window:  window,
		scope:   scope,
		message: "Too many requests. Please try again later.",
	}
}

// WithMessage replaces the text returned with 429.
func (rl *RateLimiter) WithMessage(message string) *RateLimiter {
	rl.message = message
	return rl
}

// RateLimit rejects callers over the limit with 429. The key defaults to the
// client IP. When the counter fails the request is let through and logged.
func RateLimit(rl *RateLimiter, keyFunc ...func(*gin.Context) string) gin.HandlerFunc {
	key := func(c *gin.Context) string { return c.ClientIP() }
	if len(keyFunc) > 0 && keyFunc[0] != nil {
		key = keyFunc[0]
	}
	limit := strconv.FormatInt(rl.limit, 10)

	return func(c *gin.Context) {
		count, resetIn, err := rl.counter.Hit(c.Request.Context(), rl.scope+":"+key(c), rl.window)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("Rate limit counter unavailable",
				zap.String("scope", rl.scope), zap.Error(err))
			c.Next()
			return
		}

		remaining := max(rl.limit-count, 0)
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > rl.limit {
			retry := int64((resetIn + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.FormatInt(max(retry, 1), 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeRateLimited, rl.message, GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// TenantKey keys a limiter by company once RequireTenant has run,
// falling back to the client IP.
func TenantKey(c *gin.Context) string {
	if id, ok := GetTenantUUID(c); ok {
		return "tenant:" + id.String()
	}
	return c.ClientIP()
}

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key of a retried request
const IdempotencyKeyHeader = "Idempotency-Key"

const defaultIdempotencyTTL = 24 * time.Hour

// RequestKeyStore claims request keys for a limited time
type RequestKeyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store  RequestKeyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a repeated request carrying an Idempotency-Key that
// was already accepted. Requests without the header pass through. A key is
// released again when the handler answers with an error status so the
// client can retry.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultIdempotencyTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if header == "" || cfg.Store == nil {
			c.Next()
			return
		}

		key := requestKey(c, header)
		ctx := c.Request.Context()

		claimed, err := cfg.Store.Claim(ctx, key, cfg.TTL)
		if err != nil {
			// store outage must not block payments
			cfg.Logger.Warn("Failed to claim idempotency key",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeConflict,
					"Request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(context.WithoutCancel(ctx), key); err != nil {
				cfg.Logger.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}

func requestKey(c *gin.Context, header string) string {
	tenant := "anonymous"
	if id, ok := GetTenantUUID(c); ok {
		tenant = id.String()
	}
	return tenant + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + header
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/erp-obras/backend/internal/infrastructure/auth"
	"github.com/erp-obras/backend/internal/infrastructure/logger"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// gin context keys filled from a verified access token
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTEmailKey    = "jwt_email"
	JWTRoleKey     = "jwt_role"
)

const bearerPrefix = "Bearer "

// JWTMiddlewareConfig configures JWTAuthMiddlewareWithConfig.
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Revocations is consulted after signature checks when set.
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// DefaultJWTConfig verifies tokens without revocation checks or logging.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{JWTService: jwtService, Logger: zap.NewNop()}
}

// JWTAuthMiddlewareWithConfig requires a valid "Authorization: Bearer"
// access token and exposes its claims to the rest of the chain.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			rejectToken(c, log, auth.ErrInvalidToken, "missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			rejectToken(c, log, err, "token validation failed")
			return
		}

		if cfg.Revocations != nil {
			if revoked, reason := isRevoked(c.Request.Context(), cfg.Revocations, claims, log); revoked {
				rejectToken(c, log, auth.ErrTokenRevoked, reason)
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)

		ctx := logger.WithUser(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(logger.WithTenant(ctx, claims.TenantID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// isRevoked checks the token's own JTI (logout) and the user-wide cutoff
// (deactivation, role change). A store failure is logged and the token
// accepted so a Redis outage does not lock every user out.
func isRevoked(ctx context.Context, store auth.RevocationStore, claims *auth.Claims, log *zap.Logger) (bool, string) {
	if claims.ID != "" {
		revoked, err := store.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			log.Error("Token revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return true, "token revoked"
		}
	}
	if claims.UserID != "" {
		revoked, err := store.UserTokensRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			log.Error("User revocation check failed", zap.String("user_id", claims.UserID), zap.Error(err))
		} else if revoked {
			return true, "user sessions revoked"
		}
	}
	return false, ""
}

var tokenErrors = []struct {
	err     error
	code    string
	message string
}{
	{auth.ErrExpiredToken, dto.ErrCodeTokenExpired, "Token has expired"},
	{auth.ErrTokenRevoked, dto.ErrCodeTokenInvalid, "Token has been revoked"},
	{auth.ErrInvalidTokenType, dto.ErrCodeTokenInvalid, "Invalid token type"},
	{auth.ErrTokenNotYetValid, dto.ErrCodeTokenInvalid, "Token is not yet valid"},
	{auth.ErrInvalidToken, dto.ErrCodeTokenInvalid, "Invalid token"},
}

func rejectToken(c *gin.Context, log *zap.Logger, err error, reason string) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	for _, te := range tokenErrors {
		if errors.Is(err, te.err) {
			code, message = te.code, te.message
			break
		}
	}
	log.Debug("Request rejected by JWT auth",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetJWTClaims returns the verified claims, or nil outside the JWT chain.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get(JWTClaimsKey)
	claims, _ := v.(*auth.Claims)
	return claims
}

func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

func GetJWTEmail(c *gin.Context) string {
	return c.GetString(JWTEmailKey)
}

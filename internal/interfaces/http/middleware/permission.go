package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig configures RequireRecordPermission.
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireRecordPermission maps the HTTP method to the record permission it
// needs (GET reads, POST/PUT/PATCH write, DELETE deletes) and rejects callers
// whose token lacks it.
func RequireRecordPermission(cfg PermissionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		needed := methodToPermission(c.Request.Method)
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasPermission(needed) {
			denyPermission(c, log, "record permission missing", needed)
			return
		}
		c.Next()
	}
}

func methodToPermission(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return identity.PermissionWrite
	case http.MethodDelete:
		return identity.PermissionDelete
	}
	return identity.PermissionRead
}

// RouteRule demands one of Permissions for requests matching Method ("*" for
// any) and Path. Path is a gin route pattern; a trailing "*" matches by prefix.
type RouteRule struct {
	Method      string
	Path        string
	Permissions []string
}

func (r RouteRule) matches(method, path string) bool {
	if r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Path, "*"); ok {
		return strings.HasPrefix(path, prefix)
	}
	return r.Path == path
}

// RoutePermissionConfig configures RoutePermissionMiddleware. The first
// matching rule wins; with DefaultDeny unmatched routes are rejected.
type RoutePermissionConfig struct {
	Routes      []RouteRule
	Logger      *zap.Logger
	DefaultDeny bool
}

// DefaultRoutePermissions reserves approvals and payments for approvers and
// user management for admins.
func DefaultRoutePermissions() []RouteRule {
	approve := []string{identity.PermissionApprove}
	return []RouteRule{
		{Method: http.MethodPost, Path: "/api/medicoes/:id/aprovar", Permissions: approve},
		{Method: http.MethodPost, Path: "/api/medicoes/:id/pagar", Permissions: approve},
		{Method: http.MethodPost, Path: "/api/cotacoes/:id/aprovar", Permissions: approve},
		{Method: http.MethodPost, Path: "/api/cotacoes/:id/rejeitar", Permissions: approve},
		{Method: http.MethodPost, Path: "/api/lancamentos/:id/pagar", Permissions: approve},
		{Method: "*", Path: "/api/users*", Permissions: []string{identity.PermissionManageUsers}},
	}
}

// RoutePermissionMiddleware enforces per-route rules on top of the record
// permissions. Matching uses the route pattern so ids never affect it.
func RoutePermissionMiddleware(cfg RoutePermissionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		i := slices.IndexFunc(cfg.Routes, func(r RouteRule) bool { return r.matches(c.Request.Method, path) })
		if i < 0 {
			if cfg.DefaultDeny {
				denyPermission(c, log, "no rule for route")
				return
			}
			c.Next()
			return
		}

		rule := cfg.Routes[i]
		claims := GetJWTClaims(c)
		if claims == nil || !claims.HasAnyPermission(rule.Permissions...) {
			denyPermission(c, log, "route permission missing", rule.Permissions...)
			return
		}
		c.Next()
	}
}

func denyPermission(c *gin.Context, log *zap.Logger, reason string, needed ...string) {
	log.Warn("Permission denied",
		zap.String("reason", reason),
		zap.String("user_id", GetJWTUserID(c)),
		zap.Strings("required", needed),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeForbidden, "Access denied: insufficient permissions", GetRequestID(c)))
}

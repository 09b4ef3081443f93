package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/infrastructure/logger"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantIDKey holds the caller's company as a uuid.UUID.
const TenantIDKey = "tenant_id"

// ErrInactiveTenant rejects users of a deactivated company.
var ErrInactiveTenant = errors.New("tenant is inactive")

type TenantValidator interface {
	ValidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

type CompanyFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error)
}

// CompanyValidator accepts companies that exist and are active.
type CompanyValidator struct {
	companies CompanyFinder
}

func NewCompanyValidator(companies CompanyFinder) *CompanyValidator {
	return &CompanyValidator{companies: companies}
}

func (v *CompanyValidator) ValidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	company, err := v.companies.FindByID(ctx, tenantID)
	switch {
	case err != nil:
		return err
	case !company.Active:
		return ErrInactiveTenant
	}
	return nil
}

type TenantConfig struct {
	// Validator is optional; without it any well-formed claim is accepted.
	Validator TenantValidator
	Logger    *zap.Logger
}

// RequireTenant resolves the caller's company from the verified JWT claims
// and must run after JWTAuthMiddlewareWithConfig. Headers and bodies are
// never consulted. Unknown or inactive companies get 401; a failing lookup
// gets 500 so a database outage does not look like a revoked session.
func RequireTenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := GetJWTTenantID(c)
		if raw == "" {
			rejectTenant(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Tenant identification required")
			return
		}
		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			rejectTenant(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid tenant ID format")
			return
		}

		if cfg.Validator != nil {
			if err := cfg.Validator.ValidateTenant(c.Request.Context(), tenantID); err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				if errors.Is(err, ErrInactiveTenant) || errors.Is(err, shared.ErrNotFound) {
					log.Warn("Tenant rejected", zap.String("tenant_id", raw), zap.Error(err))
					rejectTenant(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid or inactive tenant")
					return
				}
				log.Error("Tenant lookup failed", zap.String("tenant_id", raw), zap.Error(err))
				rejectTenant(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Could not verify tenant")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func rejectTenant(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetTenantUUID returns the company set by RequireTenant.
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	v, _ := c.Get(TenantIDKey)
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

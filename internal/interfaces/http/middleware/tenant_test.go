package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp-obras/backend/internal/domain/identity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompanyFinder struct {
	mock.Mock
}

func (m *mockCompanyFinder) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*identity.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

// tenantEngine stands in for the JWT middleware by setting the claim directly.
func tenantEngine(cfg TenantConfig, claim string, captured *uuid.UUID) *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if claim != "" {
			c.Set(JWTTenantIDKey, claim)
		}
		c.Next()
	}, RequireTenant(cfg))
	engine.GET("/api/obras", func(c *gin.Context) {
		if captured != nil {
			*captured, _ = GetTenantUUID(c)
		}
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequireTenant_FromClaims(t *testing.T) {
	tenantID := uuid.New()
	var captured uuid.UUID

	w := serveWithToken(tenantEngine(TenantConfig{}, tenantID.String(), &captured), http.MethodGet, "/api/obras", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID, captured)
}

func TestRequireTenant_IgnoresHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/obras", nil)
	req.Header.Set("X-Tenant-ID", uuid.New().String())
	w := serve(tenantEngine(TenantConfig{}, "", nil), req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Tenant identification required", decodeError(t, w.Body.Bytes()).Error)
}

func TestRequireTenant_MalformedClaim(t *testing.T) {
	for _, bad := range []string{"not-a-uuid", uuid.Nil.String()} {
		w := serveWithToken(tenantEngine(TenantConfig{}, bad, nil), http.MethodGet, "/api/obras", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, bad)
	}
}

func TestRequireTenant_CompanyValidator(t *testing.T) {
	active, inactive, missing, broken := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	finder := new(mockCompanyFinder)
	finder.On("FindByID", mock.Anything, active).Return(&identity.Company{Active: true}, nil)
	finder.On("FindByID", mock.Anything, inactive).Return(&identity.Company{Active: false}, nil)
	finder.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
	finder.On("FindByID", mock.Anything, broken).Return(nil, errors.New("connection refused"))

	cfg := TenantConfig{Validator: NewCompanyValidator(finder)}

	tests := []struct {
		name     string
		tenantID uuid.UUID
		status   int
		code     string
	}{
		{"active company", active, http.StatusOK, ""},
		{"inactive company", inactive, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"unknown company", missing, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"lookup failure", broken, http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveWithToken(tenantEngine(cfg, tt.tenantID.String(), nil), http.MethodGet, "/api/obras", "")
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, w.Body.Bytes()).Code)
			}
		})
	}
	finder.AssertExpectations(t)
}

func TestCompanyValidator_Inactive(t *testing.T) {
	id := uuid.New()
	finder := new(mockCompanyFinder)
	finder.On("FindByID", mock.Anything, id).Return(&identity.Company{Active: false}, nil)

	err := NewCompanyValidator(finder).ValidateTenant(context.Background(), id)
	require.ErrorIs(t, err, ErrInactiveTenant)
}

func TestGetTenantUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetTenantUUID(c)
	assert.False(t, ok)

	c.Set(TenantIDKey, uuid.Nil)
	_, ok = GetTenantUUID(c)
	assert.False(t, ok)

	id := uuid.New()
	c.Set(TenantIDKey, id)
	got, ok := GetTenantUUID(c)
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

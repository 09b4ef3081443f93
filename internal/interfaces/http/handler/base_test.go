package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/erp-obras/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, tenantID, userID uuid.UUID) {
	c.Set(middleware.JWTTenantIDKey, tenantID.String())
	c.Set(middleware.JWTUserIDKey, userID.String())
}

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*gin.Context)
		expectedID string
	}{
		{
			name:       "from request id middleware",
			setup:      func(c *gin.Context) { c.Set(middleware.RequestIDKey, "mw-id") },
			expectedID: "mw-id",
		},
		{
			name:       "from header when context empty",
			setup:      func(c *gin.Context) { c.Request.Header.Set(middleware.HeaderRequestID, "header-id") },
			expectedID: "header-id",
		},
		{
			name:       "empty when not set",
			setup:      func(c *gin.Context) {},
			expectedID: "",
		},
		{
			name: "context takes precedence over header",
			setup: func(c *gin.Context) {
				c.Set("request_id", "ctx-id")
				c.Request.Header.Set(middleware.HeaderRequestID, "header-id")
			},
			expectedID: "ctx-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext()
			tt.setup(c)
			assert.Equal(t, tt.expectedID, getRequestID(c))
		})
	}
}

func TestGetTenantID(t *testing.T) {
	t.Run("from tenant middleware", func(t *testing.T) {
		c, _ := newTestContext()
		id := uuid.New()
		c.Set(middleware.TenantIDKey, id)

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("falls back to jwt claim", func(t *testing.T) {
		c, _ := newTestContext()
		id := uuid.New()
		setJWTContext(c, id, uuid.New())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("header is ignored", func(t *testing.T) {
		c, _ := newTestContext()
		c.Request.Header.Set("X-Tenant-ID", uuid.New().String())

		_, err := getTenantID(c)
		assert.Error(t, err)
	})

	t.Run("nil uuid rejected", func(t *testing.T) {
		c, _ := newTestContext()
		c.Set(middleware.JWTTenantIDKey, uuid.Nil.String())

		_, err := getTenantID(c)
		assert.Error(t, err)
	})
}

func TestGetUserID(t *testing.T) {
	c, _ := newTestContext()
	_, err := getUserID(c)
	assert.Error(t, err)

	userID := uuid.New()
	setJWTContext(c, uuid.New(), userID)
	got, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerCreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext()
	h.Created(c, gin.H{"id": "1"})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext()
	h.NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name   string
		call   func(*gin.Context)
		status int
		code   string
	}{
		{"bad request", func(c *gin.Context) { h.BadRequest(c, "bad") }, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"not found", func(c *gin.Context) { h.NotFound(c, "missing") }, http.StatusNotFound, dto.ErrCodeNotFound},
		{"unauthorized", func(c *gin.Context) { h.Unauthorized(c, "no") }, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", func(c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeForbidden, "no") }, http.StatusForbidden, dto.ErrCodeForbidden},
		{"conflict", func(c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeConflict, "dup") }, http.StatusConflict, dto.ErrCodeConflict},
		{"internal", func(c *gin.Context) { h.InternalError(c, "boom") }, http.StatusInternalServerError, dto.ErrCodeInternal},
		{"too many", func(c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeRateLimited, "slow") }, http.StatusTooManyRequests, dto.ErrCodeRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()
			c.Set("request_id", "req-1")
			tt.call(c)

			assert.Equal(t, tt.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, "req-1", resp.RequestID)
		})
	}
}

func TestBaseHandlerErrorWithCode(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext()

	h.ErrorWithCode(c, "STAGE_WEIGHT_EXCEEDED", "Soma dos percentuais previstos excede 100%")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeStageWeightExceeded, resp.Code)
}

func TestBaseHandlerBindJSON(t *testing.T) {
	middleware.SetupValidator()
	h := &BaseHandler{}
	var req struct {
		Nome string `json:"nome" binding:"required"`
	}

	c, w := newTestContext()
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	assert.False(t, h.bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "nome", resp.Details[0].Field)

	c, _ = newTestContext()
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"Residencial Aurora"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	assert.True(t, h.bindJSON(c, &req))
	assert.Equal(t, "Residencial Aurora", req.Nome)
}

func TestBaseHandlerHandleError_DomainErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid state", shared.ErrInvalidState, http.StatusBadRequest, dto.ErrCodeInvalidState},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"dependencies", shared.NewDependencyError("Cannot delete obra: %d etapa(s) reference it", 2), http.StatusBadRequest, dto.ErrCodeHasDependencies},
		{"business rule", shared.NewDomainError("INVALID_AMOUNT", "Valor deve ser positivo"), http.StatusBadRequest, dto.ErrCodeBusinessRule},
		{"wrapped", fmt.Errorf("context: %w", shared.NewNotFoundError("Obra")), http.StatusNotFound, dto.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext()

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedCode, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedErr, resp.Code)
		})
	}
}

func TestBaseHandlerHandleError_Unexpected(t *testing.T) {
	h := &BaseHandler{}

	t.Run("generic message outside debug mode", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeInternal, resp.Code)
		assert.Equal(t, genericErrorMessage, resp.Error)
	})

	t.Run("real message in debug mode", func(t *testing.T) {
		gin.SetMode(gin.DebugMode)
		defer gin.SetMode(gin.TestMode)

		c, w := newTestContext()
		h.HandleError(c, errors.New("pq: connection refused"))

		resp := decodeResponse(t, w)
		assert.Equal(t, "pq: connection refused", resp.Error)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})
}

func TestBaseHandlerParseID(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext()
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	_, ok := h.parseID(c, "obra")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid obra ID format", decodeResponse(t, w).Error)

	id := uuid.New()
	c, _ = newTestContext()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.parseID(c, "obra")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCodeTranslation(t *testing.T) {
	tests := []struct {
		domain string
		code   string
		status int
	}{
		{"NOT_FOUND", ErrCodeNotFound, http.StatusNotFound},
		{"EMAIL_ALREADY_EXISTS", ErrCodeAlreadyExists, http.StatusConflict},
		{"HAS_DEPENDENCIES", ErrCodeHasDependencies, http.StatusBadRequest},
		{"STAGE_WEIGHT_EXCEEDED", ErrCodeStageWeightExceeded, http.StatusBadRequest},
		{"INVALID_STATE", ErrCodeInvalidState, http.StatusBadRequest},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{"TOKEN_MAX_REFRESH", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"TOKEN_REVOKED", ErrCodeTokenInvalid, http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked, http.StatusForbidden},
		{"ACCOUNT_DEACTIVATED", ErrCodeForbidden, http.StatusForbidden},
		{"EXPORT_UNAVAILABLE", ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"INTERNAL_ERROR", ErrCodeInternal, http.StatusInternalServerError},
		// rule violations without their own code
		{"ALREADY_APPROVED", ErrCodeBusinessRule, http.StatusBadRequest},
		{"INVALID_AMOUNT", ErrCodeBusinessRule, http.StatusBadRequest},
		// API codes pass through
		{ErrCodeRateLimited, ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeRequestTooLarge, ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			code := NormalizeErrorCode(tt.domain)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, GetHTTPStatus(code))
		})
	}
}

func TestGetHTTPStatus_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("NO_SUCH_CODE"))
}

func TestErrorTables_Consistent(t *testing.T) {
	for domain, code := range domainCodes {
		_, ok := codeStatus[code]
		assert.True(t, ok, "%s translates to %s, which has no status", domain, code)
	}
	for code, status := range codeStatus {
		assert.GreaterOrEqual(t, status, 400, code)
	}
}

func TestErrorEnvelope(t *testing.T) {
	t.Run("domain code is translated", func(t *testing.T) {
		resp := NewErrorResponse("NOT_FOUND", "Obra não encontrada")

		assert.False(t, resp.Success)
		assert.Nil(t, resp.Data)
		assert.Equal(t, ErrCodeNotFound, resp.Code)
		assert.Equal(t, "Obra não encontrada", resp.Error)
	})

	t.Run("wire shape", func(t *testing.T) {
		resp := NewErrorResponseWithRequestID("HAS_DEPENDENCIES", "Fornecedor possui 1 cotação aprovada", "req-7")

		raw, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"error": "Fornecedor possui 1 cotação aprovada",
			"code": "ERR_HAS_DEPENDENCIES",
			"request_id": "req-7"
		}`, string(raw))
	})

	t.Run("validation details are joined into the message", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-8", []ValidationDetail{
			{Field: "email", Message: "Invalid email format"},
			{Field: "nome", Message: "This field is required"},
		})

		assert.Equal(t, ErrCodeValidation, resp.Code)
		assert.Equal(t, "email: Invalid email format; nome: This field is required", resp.Error)
		assert.Equal(t, "req-8", resp.RequestID)
		assert.Len(t, resp.Details, 2)

		bare := NewValidationErrorResponse("Request validation failed", "", nil)
		assert.Equal(t, "Request validation failed", bare.Error)
	})
}

func TestSuccessEnvelope(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"nome": "Residencial Ipê"})
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Meta)

	pages := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 20, 0},
		{5, 0, 0},
	}
	for _, p := range pages {
		resp := NewSuccessResponseWithMeta([]string{"a"}, p.total, 1, p.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, p.total, resp.Meta.Total)
		assert.Equal(t, p.want, resp.Meta.TotalPages, "total %d, page size %d", p.total, p.pageSize)
	}
}

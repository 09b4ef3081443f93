package dto

import "net/http"

// API error codes. Clients switch on these, never on the message text.
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE" // storage or export backend not configured

	ErrCodeBadRequest          = "ERR_BAD_REQUEST"
	ErrCodeValidation          = "ERR_VALIDATION"
	ErrCodeInvalidInput        = "ERR_INVALID_INPUT"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE" // body over http.max_body_size
	ErrCodeStageWeightExceeded = "ERR_STAGE_WEIGHT_EXCEEDED"
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeBusinessRule        = "ERR_BUSINESS_RULE"
	ErrCodeHasDependencies     = "ERR_HAS_DEPENDENCIES"

	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// codeStatus lists every code the API emits. Rule violations answer 400
// like any other client mistake.
var codeStatus = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,

	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeStageWeightExceeded: http.StatusBadRequest,
	ErrCodeInvalidState:        http.StatusBadRequest,
	ErrCodeBusinessRule:        http.StatusBadRequest,
	ErrCodeHasDependencies:     http.StatusBadRequest,

	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeAccountLocked:      http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// domainCodes translates shared.DomainError codes raised by the domain and
// application layers.
var domainCodes = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"ALREADY_EXISTS":        ErrCodeAlreadyExists,
	"EMAIL_ALREADY_EXISTS":  ErrCodeAlreadyExists,
	"CONCURRENCY_CONFLICT":  ErrCodeConcurrencyConflict,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"VALIDATION_ERROR":      ErrCodeValidation,
	"BAD_REQUEST":           ErrCodeBadRequest,
	"INVALID_STATE":         ErrCodeInvalidState,
	"HAS_DEPENDENCIES":      ErrCodeHasDependencies,
	"STAGE_WEIGHT_EXCEEDED": ErrCodeStageWeightExceeded,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":   ErrCodeInvalidCredentials,
	"TOKEN_EXPIRED":         ErrCodeTokenExpired,
	"TOKEN_MAX_REFRESH":     ErrCodeTokenExpired,
	"TOKEN_INVALID":         ErrCodeTokenInvalid,
	"INVALID_TOKEN":         ErrCodeTokenInvalid,
	"TOKEN_REVOKED":         ErrCodeTokenInvalid,
	"FORBIDDEN":             ErrCodeForbidden,
	"ACCOUNT_LOCKED":        ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED":   ErrCodeForbidden,
	"STORAGE_UNAVAILABLE":   ErrCodeServiceUnavailable,
	"EXPORT_UNAVAILABLE":    ErrCodeServiceUnavailable,
	"INTERNAL_ERROR":        ErrCodeInternal,
}

// GetHTTPStatus answers 500 for codes it does not know.
func GetHTTPStatus(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode accepts either an API code or a domain code. Unknown
// domain codes are business rule violations.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodes[code]; ok {
		return mapped
	}
	if _, ok := codeStatus[code]; ok {
		return code
	}
	return ErrCodeBusinessRule
}

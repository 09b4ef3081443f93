// Package dto defines the JSON envelope every API response uses.
package dto

import "strings"

// Response is the envelope. Success responses carry Data (and Meta for
// lists); errors are flat: {"success":false,"error":"...","code":"...","request_id":"..."}.
type Response struct {
	Success   bool               `json:"success"`
	Data      any                `json:"data,omitempty"`
	Meta      *Meta              `json:"meta,omitempty"`
	Error     string             `json:"error,omitempty"`
	Code      string             `json:"code,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewSuccessResponseWithMeta reports zero pages when pageSize is not positive.
func NewSuccessResponseWithMeta(data any, total int64, page, pageSize int) Response {
	meta := &Meta{Total: total, Page: page, PageSize: pageSize}
	if pageSize > 0 {
		size := int64(pageSize)
		meta.TotalPages = int((total + size - 1) / size)
	}
	return Response{Success: true, Data: data, Meta: meta}
}

func NewErrorResponse(code, message string) Response {
	return Response{Error: message, Code: NormalizeErrorCode(code)}
}

func NewErrorResponseWithRequestID(code, message, requestID string) Response {
	resp := NewErrorResponse(code, message)
	resp.RequestID = requestID
	return resp
}

// NewValidationErrorResponse joins the field messages into Error so clients
// that only show Error still see which fields failed.
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	if len(details) > 0 {
		parts := make([]string, 0, len(details))
		for _, d := range details {
			parts = append(parts, d.Field+": "+d.Message)
		}
		message = strings.Join(parts, "; ")
	}
	return Response{
		Error:     message,
		Code:      ErrCodeValidation,
		RequestID: requestID,
		Details:   details,
	}
}

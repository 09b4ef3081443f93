package handler

import (
	"errors"
	"net/http"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/interfaces/http/dto"
	"github.com/erp-obras/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// genericErrorMessage replaces the text of unexpected errors unless gin
// runs in debug mode.
const genericErrorMessage = "An unexpected error occurred"

const defaultPageSize = 20

var (
	errUserNotFound   = errors.New("user ID not found in context")
	errTenantNotFound = errors.New("tenant ID not found in context")
)

// BaseHandler is embedded by every resource handler. Its helpers write the
// dto envelope; those returning a bool have already responded when false.
type BaseHandler struct{}

func getRequestID(c *gin.Context) string { return middleware.GetRequestID(c) }

func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errUserNotFound
	}
	return uuid.Parse(raw)
}

// getTenantID prefers the company checked by RequireTenant and falls back
// to the raw JWT claim on routes mounted without it (/auth/logout).
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	if id, ok := middleware.GetTenantUUID(c); ok {
		return id, nil
	}
	id, err := uuid.Parse(middleware.GetJWTTenantID(c))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errTenantNotFound
	}
	return id, nil
}

func pageDefaults(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	id, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, false
	}
	return id, true
}

// parseID reads the :id path parameter. label names the resource in the
// error, e.g. "Invalid obra ID format".
func (h *BaseHandler) parseID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID reads an optional UUID filter; nil means absent.
func (h *BaseHandler) queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, "Invalid "+key+" format")
		return nil, false
	}
	return &id, true
}

// requireProjectQuery reads the obraId filter that project-scoped lists
// cannot do without.
func (h *BaseHandler) requireProjectQuery(c *gin.Context) (uuid.UUID, bool) {
	id, ok := h.queryUUID(c, "obraId")
	switch {
	case !ok:
		return uuid.Nil, false
	case id == nil:
		h.ErrorWithCode(c, dto.ErrCodeValidation, "obraId is required")
		return uuid.Nil, false
	}
	return *id, true
}

func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	return h.bound(c, c.ShouldBindJSON(req))
}

func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	return h.bound(c, c.ShouldBindQuery(req))
}

func (h *BaseHandler) bound(c *gin.Context, err error) bool {
	if err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// ErrorWithCode derives the status from the code. Domain codes without a
// dedicated mapping are reported as business rule violations.
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	code = dto.NormalizeErrorCode(code)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeNotFound, message)
}

func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeUnauthorized, message)
}

func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInternal, message)
}

// HandleError writes err as a response. Domain errors keep their code and
// message; anything else is attached to the gin context for the access log
// and answered with 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		h.ErrorWithCode(c, de.Code, de.Message)
		return
	}

	_ = c.Error(err)
	message := genericErrorMessage
	if gin.IsDebugging() {
		message = err.Error()
	}
	h.InternalError(c, message)
}

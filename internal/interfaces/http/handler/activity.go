package handler

import (
	activityapp "github.com/erp-obras/backend/internal/application/activity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler handles the activity log (activity-log) endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *activityapp.Service
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *activityapp.Service) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// Append godoc
// @Summary      Record an activity
// @Description  Append an entry to the company's activity log on behalf of the calling user
// @Tags         activity-log
// @Accept       json
// @Produce      json
// @Param        request body activityapp.AppendRequest true "Activity"
// @Success      201 {object} dto.Response{data=activityapp.EntryResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /activity-log [post]
func (h *ActivityHandler) Append(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req activityapp.AppendRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var userID *uuid.UUID
	if id, err := getUserID(c); err == nil {
		userID = &id
	}

	entry, err := h.activityService.Append(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @Summary      Get an activity record
// @Tags         activity-log
// @Produce      json
// @Param        id path string true "Activity ID" format(uuid)
// @Success      200 {object} dto.Response{data=activityapp.EntryResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /activity-log/{id} [get]
func (h *ActivityHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	activityID, ok := h.parseID(c, "activity")
	if !ok {
		return
	}

	entry, err := h.activityService.GetByID(c.Request.Context(), tenantID, activityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @Summary      List recent activity
// @Description  Most recent activity first. The log is append-only.
// @Tags         activity-log
// @Produce      json
// @Param        entidade query string false "Entity type"
// @Param        entidadeId query string false "Entity ID" format(uuid)
// @Param        userId query string false "User ID" format(uuid)
// @Param        limit query int false "Maximum records" default(100) maximum(1000)
// @Success      200 {object} dto.Response{data=[]activityapp.EntryResponse}
// @Security     BearerAuth
// @Router       /activity-log [get]
func (h *ActivityHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter activityapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.EntityID, ok = h.queryUUID(c, "entidadeId"); !ok {
		return
	}
	if filter.UserID, ok = h.queryUUID(c, "userId"); !ok {
		return
	}

	entries, err := h.activityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

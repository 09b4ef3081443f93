package handler

import (
	projectapp "github.com/erp-obras/backend/internal/application/project"
	"github.com/gin-gonic/gin"
)

// WeeklyReportHandler handles weekly report (relatório semanal) endpoints
type WeeklyReportHandler struct {
	BaseHandler
	reportService *projectapp.WeeklyReportService
}

// NewWeeklyReportHandler creates a new WeeklyReportHandler
func NewWeeklyReportHandler(reportService *projectapp.WeeklyReportService) *WeeklyReportHandler {
	return &WeeklyReportHandler{reportService: reportService}
}

// Create godoc
// @Summary      File a weekly report
// @Description  File a weekly report; the project's current progress is captured with it
// @Tags         relatorios
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateWeeklyReportRequest true "Report"
// @Success      201 {object} dto.Response{data=projectapp.WeeklyReportResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /relatorios [post]
func (h *WeeklyReportHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req projectapp.CreateWeeklyReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, report)
}

// GetByID godoc
// @Summary      Get a weekly report
// @Tags         relatorios
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.WeeklyReportResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /relatorios/{id} [get]
func (h *WeeklyReportHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reportID, ok := h.parseID(c, "report")
	if !ok {
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), tenantID, reportID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// List godoc
// @Summary      List weekly reports
// @Tags         relatorios
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.WeeklyReportResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /relatorios [get]
func (h *WeeklyReportHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter projectapp.WeeklyReportListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	reports, total, err := h.reportService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, reports, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a weekly report
// @Tags         relatorios
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID" format(uuid)
// @Param        request body projectapp.UpdateWeeklyReportRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=projectapp.WeeklyReportResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /relatorios/{id} [put]
func (h *WeeklyReportHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reportID, ok := h.parseID(c, "report")
	if !ok {
		return
	}

	var req projectapp.UpdateWeeklyReportRequest
	if !h.bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), tenantID, reportID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Delete godoc
// @Summary      Delete a weekly report
// @Tags         relatorios
// @Param        id path string true "Report ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /relatorios/{id} [delete]
func (h *WeeklyReportHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	reportID, ok := h.parseID(c, "report")
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), tenantID, reportID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

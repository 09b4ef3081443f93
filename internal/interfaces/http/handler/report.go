package handler

import (
	"fmt"
	"net/http"

	reportapp "github.com/erp-obras/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the derived reads of a project: alerts and the
// management report
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Alerts godoc
// @Summary      Alerts of a project
// @Description  Evaluate the alert conditions of a project. Alerts are computed on every read and never stored.
// @Tags         alertas
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.AlertsResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /alertas [get]
func (h *ReportHandler) Alerts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	alerts, err := h.reportService.Alerts(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// ManagementReport godoc
// @Summary      Management report of a project
// @Description  Progress, financial position, deviation, risk and alerts in one flat document
// @Tags         relatorio-gerencial
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=reportapp.ManagementReportResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /relatorio-gerencial [get]
func (h *ReportHandler) ManagementReport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	r, err := h.reportService.ManagementReport(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, r)
}

// ManagementReportPDF godoc
// @Summary      Management report as PDF
// @Tags         relatorio-gerencial
// @Produce      application/pdf
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response "PDF rendering not configured"
// @Security     BearerAuth
// @Router       /relatorio-gerencial/pdf [get]
func (h *ReportHandler) ManagementReportPDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	file, err := h.reportService.ManagementReportPDF(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sendFile(c, file, "inline")
}

// sendFile writes a generated document with its download headers
func sendFile(c *gin.Context, file *reportapp.FileResponse, disposition string) {
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

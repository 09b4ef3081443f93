package handler

import (
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	reportapp "github.com/erp-obras/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves the financial roll-ups of a project
type FinanceHandler struct {
	BaseHandler
	rollupService *financeapp.RollupService
	reportService *reportapp.Service
}

// NewFinanceHandler creates a new FinanceHandler. The report service backs
// the XLSX export of the period statement.
func NewFinanceHandler(rollupService *financeapp.RollupService, reportService *reportapp.Service) *FinanceHandler {
	return &FinanceHandler{
		rollupService: rollupService,
		reportService: reportService,
	}
}

// Summary godoc
// @Summary      Financial summary of a project
// @Description  Budget against paid, pending and realized amounts, with the projection at completion
// @Tags         financeiro
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.SummaryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /financeiro/resumo [get]
func (h *FinanceHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	summary, err := h.rollupService.Summary(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Deviation godoc
// @Summary      Budget deviation of a project
// @Description  Compare the financial percentage with the physical progress and classify the gap
// @Tags         financeiro
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.DeviationResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /financeiro/desvio [get]
func (h *FinanceHandler) Deviation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	deviation, err := h.rollupService.Deviation(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deviation)
}

// CashFlow godoc
// @Summary      Monthly cash flow of a project
// @Description  Revenue and expense per month with the running balance, oldest month first
// @Tags         financeiro
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.CashFlowResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /financeiro/fluxo-caixa [get]
func (h *FinanceHandler) CashFlow(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return
	}

	flow, err := h.rollupService.CashFlow(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, flow)
}

// Period godoc
// @Summary      Entries of a period
// @Description  List the entries due within the period (both ends inclusive) with their totals
// @Tags         financeiro
// @Produce      json
// @Param        obraId query string true "Project ID" format(uuid)
// @Param        inicio query string true "Start date" format(date)
// @Param        fim query string true "End date" format(date)
// @Success      200 {object} dto.Response{data=financeapp.PeriodResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /financeiro/periodo [get]
func (h *FinanceHandler) Period(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	req, ok := h.periodRequest(c)
	if !ok {
		return
	}

	period, err := h.rollupService.Period(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, period)
}

// PeriodExport godoc
// @Summary      Export the entries of a period
// @Description  Download the period statement as an XLSX workbook
// @Tags         financeiro
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        obraId query string true "Project ID" format(uuid)
// @Param        inicio query string true "Start date" format(date)
// @Param        fim query string true "End date" format(date)
// @Success      200 {file} binary
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /financeiro/periodo/export [get]
func (h *FinanceHandler) PeriodExport(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	req, ok := h.periodRequest(c)
	if !ok {
		return
	}

	file, err := h.reportService.PeriodWorkbook(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sendFile(c, file, "attachment")
}

func (h *FinanceHandler) periodRequest(c *gin.Context) (financeapp.PeriodRequest, bool) {
	var req financeapp.PeriodRequest
	projectID, ok := h.requireProjectQuery(c)
	if !ok {
		return req, false
	}
	if !h.bindQuery(c, &req) {
		return req, false
	}
	req.ProjectID = projectID
	return req, true
}

package handler

import (
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	projectapp "github.com/erp-obras/backend/internal/application/project"
	"github.com/erp-obras/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
)

// MeasurementHandler handles measurement (medição) endpoints
type MeasurementHandler struct {
	BaseHandler
	measurementService *projectapp.MeasurementService
	workflowService    *workflow.Service
}

// NewMeasurementHandler creates a new MeasurementHandler
func NewMeasurementHandler(measurementService *projectapp.MeasurementService, workflowService *workflow.Service) *MeasurementHandler {
	return &MeasurementHandler{
		measurementService: measurementService,
		workflowService:    workflowService,
	}
}

// MeasurementPaymentResponse is the outcome of paying a measurement. Pago is
// false, with nothing written, when the measurement is missing or already paid.
// @Description Measurement payment outcome
type MeasurementPaymentResponse struct {
	Paid        bool                            `json:"pago" example:"true"`
	Message     string                          `json:"mensagem,omitempty"`
	Measurement *projectapp.MeasurementResponse `json:"medicao,omitempty"`
	Entry       *financeapp.EntryResponse       `json:"lancamento,omitempty"`
}

// Create godoc
// @Summary      Create a measurement
// @Tags         medicoes
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateMeasurementRequest true "Measurement data"
// @Success      201 {object} dto.Response{data=projectapp.MeasurementResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes [post]
func (h *MeasurementHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req projectapp.CreateMeasurementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	measurement, err := h.measurementService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, measurement)
}

// GetByID godoc
// @Summary      Get a measurement
// @Tags         medicoes
// @Produce      json
// @Param        id path string true "Measurement ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.MeasurementResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes/{id} [get]
func (h *MeasurementHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	measurementID, ok := h.parseID(c, "measurement")
	if !ok {
		return
	}

	measurement, err := h.measurementService.GetByID(c.Request.Context(), tenantID, measurementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, measurement)
}

// List godoc
// @Summary      List measurements
// @Tags         medicoes
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        etapaId query string false "Stage ID" format(uuid)
// @Param        status query string false "Status" Enums(PENDING, APPROVED, PAID)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.MeasurementResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /medicoes [get]
func (h *MeasurementHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter projectapp.MeasurementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	if filter.StageID, ok = h.queryUUID(c, "etapaId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	measurements, total, err := h.measurementService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, measurements, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a measurement
// @Description  Update a measurement that has not been paid
// @Tags         medicoes
// @Accept       json
// @Produce      json
// @Param        id path string true "Measurement ID" format(uuid)
// @Param        request body projectapp.UpdateMeasurementRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=projectapp.MeasurementResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes/{id} [put]
func (h *MeasurementHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	measurementID, ok := h.parseID(c, "measurement")
	if !ok {
		return
	}

	var req projectapp.UpdateMeasurementRequest
	if !h.bindJSON(c, &req) {
		return
	}

	measurement, err := h.measurementService.Update(c.Request.Context(), tenantID, measurementID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, measurement)
}

// Delete godoc
// @Summary      Delete a measurement
// @Tags         medicoes
// @Param        id path string true "Measurement ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes/{id} [delete]
func (h *MeasurementHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	measurementID, ok := h.parseID(c, "measurement")
	if !ok {
		return
	}

	if err := h.measurementService.Delete(c.Request.Context(), tenantID, measurementID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve godoc
// @Summary      Approve a measurement
// @Description  Move a pending measurement to APPROVED
// @Tags         medicoes
// @Produce      json
// @Param        id path string true "Measurement ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.MeasurementResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes/{id}/aprovar [post]
func (h *MeasurementHandler) Approve(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	measurementID, ok := h.parseID(c, "measurement")
	if !ok {
		return
	}

	measurement, err := h.measurementService.Approve(c.Request.Context(), tenantID, measurementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, measurement)
}

// Pay godoc
// @Summary      Pay a measurement
// @Description  Create a paid expense entry for the measurement and mark it PAID in one transaction.
// @Description  A missing or already paid measurement is answered with pago=false and nothing is written.
// @Tags         medicoes
// @Produce      json
// @Param        id path string true "Measurement ID" format(uuid)
// @Success      200 {object} dto.Response{data=MeasurementPaymentResponse}
// @Failure      403 {object} dto.Response
// @Security     BearerAuth
// @Router       /medicoes/{id}/pagar [post]
func (h *MeasurementHandler) Pay(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	measurementID, ok := h.parseID(c, "measurement")
	if !ok {
		return
	}

	payment, err := h.workflowService.PayMeasurement(c.Request.Context(), tenantID, measurementID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := MeasurementPaymentResponse{Paid: payment.Paid, Message: payment.Message}
	if payment.Measurement != nil {
		m := projectapp.ToMeasurementResponse(payment.Measurement)
		resp.Measurement = &m
	}
	if payment.Entry != nil {
		e := financeapp.ToEntryResponse(payment.Entry)
		resp.Entry = &e
	}
	h.Success(c, resp)
}

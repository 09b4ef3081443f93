package handler

import (
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	procurementapp "github.com/erp-obras/backend/internal/application/procurement"
	"github.com/erp-obras/backend/internal/application/workflow"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles quotation (cotação) endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *procurementapp.QuotationService
	workflowService  *workflow.Service
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *procurementapp.QuotationService, workflowService *workflow.Service) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		workflowService:  workflowService,
	}
}

// QuotationApprovalResponse carries the records written by an approval
// @Description Approved quotation with the expense entry and purchase item it created
type QuotationApprovalResponse struct {
	Quotation    procurementapp.QuotationResponse     `json:"cotacao"`
	Entry        *financeapp.EntryResponse            `json:"lancamento,omitempty"`
	PurchaseItem *procurementapp.PurchaseItemResponse `json:"itemCompra,omitempty"`
}

// Create godoc
// @Summary      Register a quotation
// @Tags         cotacoes
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreateQuotationRequest true "Quotation data"
// @Success      201 {object} dto.Response{data=procurementapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req procurementapp.CreateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID godoc
// @Summary      Get a quotation
// @Tags         cotacoes
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurementapp.QuotationResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List godoc
// @Summary      List quotations
// @Tags         cotacoes
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        fornecedorId query string false "Vendor ID" format(uuid)
// @Param        status query string false "Status" Enums(REQUESTED, RECEIVED, APPROVED, REJECTED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]procurementapp.QuotationResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /cotacoes [get]
func (h *QuotationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter procurementapp.QuotationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	if filter.VendorID, ok = h.queryUUID(c, "fornecedorId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	quotations, total, err := h.quotationService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a quotation
// @Description  Only quotations that are still undecided can change
// @Tags         cotacoes
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body procurementapp.UpdateQuotationRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=procurementapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	var req procurementapp.UpdateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), tenantID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Delete godoc
// @Summary      Delete a quotation
// @Tags         cotacoes
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), tenantID, quotationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Approve godoc
// @Summary      Approve a quotation
// @Description  Approve the quotation, create its pending expense entry and add it to the purchase list in one transaction
// @Tags         cotacoes
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=QuotationApprovalResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id}/aprovar [post]
func (h *QuotationHandler) Approve(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	approval, err := h.workflowService.ApproveQuotation(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := QuotationApprovalResponse{Quotation: procurementapp.ToQuotationResponse(approval.Quotation)}
	if approval.Entry != nil {
		e := financeapp.ToEntryResponse(approval.Entry)
		resp.Entry = &e
	}
	if approval.PurchaseItem != nil {
		i := procurementapp.ToPurchaseItemResponse(approval.PurchaseItem)
		resp.PurchaseItem = &i
	}
	h.Success(c, resp)
}

// Reject godoc
// @Summary      Reject a quotation
// @Tags         cotacoes
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurementapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id}/rejeitar [post]
func (h *QuotationHandler) Reject(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Reject(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Receive godoc
// @Summary      Mark a quotation as received
// @Tags         cotacoes
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurementapp.QuotationResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /cotacoes/{id}/receber [post]
func (h *QuotationHandler) Receive(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quotationID, ok := h.parseID(c, "quotation")
	if !ok {
		return
	}

	quotation, err := h.quotationService.Receive(c.Request.Context(), tenantID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

package handler

import (
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// EntryHandler handles financial entry (lançamento) endpoints
type EntryHandler struct {
	BaseHandler
	entryService *financeapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *financeapp.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// Create godoc
// @Summary      Create a financial entry
// @Tags         lancamentos
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateEntryRequest true "Entry data"
// @Success      201 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lancamentos [post]
func (h *EntryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req financeapp.CreateEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// GetByID godoc
// @Summary      Get a financial entry
// @Tags         lancamentos
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lancamentos/{id} [get]
func (h *EntryHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	entryID, ok := h.parseID(c, "entry")
	if !ok {
		return
	}

	entry, err := h.entryService.GetByID(c.Request.Context(), tenantID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List godoc
// @Summary      List financial entries
// @Description  List entries by due date. Pending entries past due are marked OVERDUE before the read.
// @Tags         lancamentos
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        fornecedorId query string false "Vendor ID" format(uuid)
// @Param        tipo query string false "Entry type" Enums(REVENUE, EXPENSE)
// @Param        status query string false "Status" Enums(PENDING, PAID, OVERDUE)
// @Param        search query string false "Search by description or category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.EntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /lancamentos [get]
func (h *EntryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter financeapp.EntryListFilter
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

	entries, total, err := h.entryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a financial entry
// @Tags         lancamentos
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Param        request body financeapp.UpdateEntryRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lancamentos/{id} [put]
func (h *EntryHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	entryID, ok := h.parseID(c, "entry")
	if !ok {
		return
	}

	var req financeapp.UpdateEntryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.entryService.Update(c.Request.Context(), tenantID, entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Pay godoc
// @Summary      Pay a financial entry
// @Description  Mark an entry PAID. The payment date defaults to today.
// @Tags         lancamentos
// @Accept       json
// @Produce      json
// @Param        id path string true "Entry ID" format(uuid)
// @Param        request body financeapp.PayEntryRequest false "Payment date"
// @Success      200 {object} dto.Response{data=financeapp.EntryResponse}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lancamentos/{id}/pagar [post]
func (h *EntryHandler) Pay(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	entryID, ok := h.parseID(c, "entry")
	if !ok {
		return
	}

	var req financeapp.PayEntryRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	entry, err := h.entryService.Pay(c.Request.Context(), tenantID, entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// MarkOverdue godoc
// @Summary      Update overdue entries
// @Description  Mark every pending entry of the company whose due date has passed as OVERDUE
// @Tags         lancamentos
// @Produce      json
// @Success      200 {object} dto.Response{data=financeapp.OverdueSweepResponse}
// @Security     BearerAuth
// @Router       /lancamentos/atualizar-vencidos [post]
func (h *EntryHandler) MarkOverdue(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	result, err := h.entryService.MarkOverdue(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a financial entry
// @Description  Refused while an invoice or a paid measurement references the entry
// @Tags         lancamentos
// @Param        id path string true "Entry ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lancamentos/{id} [delete]
func (h *EntryHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	entryID, ok := h.parseID(c, "entry")
	if !ok {
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), tenantID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

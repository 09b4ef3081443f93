package handler

import (
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice (nota fiscal) endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Create godoc
// @Summary      Register an invoice
// @Tags         notas-fiscais
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateInvoiceRequest true "Invoice data"
// @Success      201 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response "Invoice number already registered for the vendor"
// @Security     BearerAuth
// @Router       /notas-fiscais [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req financeapp.CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetByID godoc
// @Summary      Get an invoice
// @Tags         notas-fiscais
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notas-fiscais/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "invoice")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Tags         notas-fiscais
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        fornecedorId query string false "Vendor ID" format(uuid)
// @Param        search query string false "Search by number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /notas-fiscais [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter financeapp.InvoiceListFilter
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

	invoices, total, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update an invoice
// @Tags         notas-fiscais
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.UpdateInvoiceRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /notas-fiscais/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "invoice")
	if !ok {
		return
	}

	var req financeapp.UpdateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete an invoice
// @Tags         notas-fiscais
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notas-fiscais/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "invoice")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RequestDocumentUpload godoc
// @Summary      Get an upload URL for the invoice document
// @Description  Return a presigned PUT URL. The invoice records the object key so the document can be fetched later.
// @Tags         notas-fiscais
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body financeapp.DocumentUploadRequest true "File metadata"
// @Success      200 {object} dto.Response{data=financeapp.DocumentURLResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      503 {object} dto.Response "Document storage not configured"
// @Security     BearerAuth
// @Router       /notas-fiscais/{id}/arquivo/upload-url [post]
func (h *InvoiceHandler) RequestDocumentUpload(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "invoice")
	if !ok {
		return
	}

	var req financeapp.DocumentUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}

	url, err := h.invoiceService.RequestDocumentUpload(c.Request.Context(), tenantID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}

// GetDocumentURL godoc
// @Summary      Get a download URL for the invoice document
// @Tags         notas-fiscais
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.DocumentURLResponse}
// @Failure      404 {object} dto.Response "Invoice or document not found"
// @Failure      503 {object} dto.Response
// @Security     BearerAuth
// @Router       /notas-fiscais/{id}/arquivo [get]
func (h *InvoiceHandler) GetDocumentURL(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "invoice")
	if !ok {
		return
	}

	url, err := h.invoiceService.GetDocumentURL(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, url)
}

package handler

import (
	partnerapp "github.com/erp-obras/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// VendorHandler handles vendor (fornecedor) endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *partnerapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *partnerapp.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// Create godoc
// @Summary      Create a vendor
// @Tags         fornecedores
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateVendorRequest true "Vendor data"
// @Success      201 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /fornecedores [post]
func (h *VendorHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req partnerapp.CreateVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, vendor)
}

// GetByID godoc
// @Summary      Get a vendor
// @Tags         fornecedores
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /fornecedores/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	vendorID, ok := h.parseID(c, "vendor")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), tenantID, vendorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// List godoc
// @Summary      List vendors
// @Tags         fornecedores
// @Produce      json
// @Param        search query string false "Search by name, CNPJ or email"
// @Param        ativo query bool false "Only active or inactive vendors"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]partnerapp.VendorResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /fornecedores [get]
func (h *VendorHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter partnerapp.VendorListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	vendors, total, err := h.vendorService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, vendors, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a vendor
// @Tags         fornecedores
// @Accept       json
// @Produce      json
// @Param        id path string true "Vendor ID" format(uuid)
// @Param        request body partnerapp.UpdateVendorRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=partnerapp.VendorResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /fornecedores/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	vendorID, ok := h.parseID(c, "vendor")
	if !ok {
		return
	}

	var req partnerapp.UpdateVendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), tenantID, vendorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// Delete godoc
// @Summary      Delete a vendor
// @Description  Refused while quotations, entries or invoices reference the vendor
// @Tags         fornecedores
// @Param        id path string true "Vendor ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /fornecedores/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	vendorID, ok := h.parseID(c, "vendor")
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), tenantID, vendorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

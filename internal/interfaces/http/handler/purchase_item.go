package handler

import (
	procurementapp "github.com/erp-obras/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
)

// PurchaseItemHandler handles purchase list (lista de compras) endpoints
type PurchaseItemHandler struct {
	BaseHandler
	itemService *procurementapp.PurchaseItemService
}

// NewPurchaseItemHandler creates a new PurchaseItemHandler
func NewPurchaseItemHandler(itemService *procurementapp.PurchaseItemService) *PurchaseItemHandler {
	return &PurchaseItemHandler{itemService: itemService}
}

// Create godoc
// @Summary      Plan a purchase
// @Tags         lista-compras
// @Accept       json
// @Produce      json
// @Param        request body procurementapp.CreatePurchaseItemRequest true "Purchase item"
// @Success      201 {object} dto.Response{data=procurementapp.PurchaseItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lista-compras [post]
func (h *PurchaseItemHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req procurementapp.CreatePurchaseItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// GetByID godoc
// @Summary      Get a purchase item
// @Tags         lista-compras
// @Produce      json
// @Param        id path string true "Purchase item ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseItemResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lista-compras/{id} [get]
func (h *PurchaseItemHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "purchase item")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List godoc
// @Summary      List the purchase list
// @Tags         lista-compras
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        status query string false "Status" Enums(PLANNED, PURCHASED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]procurementapp.PurchaseItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /lista-compras [get]
func (h *PurchaseItemHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter procurementapp.PurchaseItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	items, total, err := h.itemService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a purchase item
// @Tags         lista-compras
// @Accept       json
// @Produce      json
// @Param        id path string true "Purchase item ID" format(uuid)
// @Param        request body procurementapp.UpdatePurchaseItemRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lista-compras/{id} [put]
func (h *PurchaseItemHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "purchase item")
	if !ok {
		return
	}

	var req procurementapp.UpdatePurchaseItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), tenantID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// MarkPurchased godoc
// @Summary      Mark a purchase item as bought
// @Tags         lista-compras
// @Produce      json
// @Param        id path string true "Purchase item ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurementapp.PurchaseItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lista-compras/{id}/comprado [post]
func (h *PurchaseItemHandler) MarkPurchased(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "purchase item")
	if !ok {
		return
	}

	item, err := h.itemService.MarkPurchased(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete a purchase item
// @Tags         lista-compras
// @Param        id path string true "Purchase item ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /lista-compras/{id} [delete]
func (h *PurchaseItemHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	itemID, ok := h.parseID(c, "purchase item")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), tenantID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	projectapp "github.com/erp-obras/backend/internal/application/project"
	"github.com/gin-gonic/gin"
)

// StageHandler handles stage (etapa) endpoints. Every write answers with the
// stage and the project as recomputed in the same transaction.
type StageHandler struct {
	BaseHandler
	stageService *projectapp.StageService
}

// NewStageHandler creates a new StageHandler
func NewStageHandler(stageService *projectapp.StageService) *StageHandler {
	return &StageHandler{stageService: stageService}
}

// Create godoc
// @Summary      Create a stage
// @Description  Add a stage to a project and recompute the project's progress
// @Tags         etapas
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateStageRequest true "Stage data"
// @Success      201 {object} dto.Response{data=projectapp.StageMutationResult}
// @Failure      400 {object} dto.Response "Validation error or planned percentages above 100"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /etapas [post]
func (h *StageHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req projectapp.CreateStageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.stageService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @Summary      Get a stage
// @Tags         etapas
// @Produce      json
// @Param        id path string true "Stage ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.StageResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /etapas/{id} [get]
func (h *StageHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stageID, ok := h.parseID(c, "stage")
	if !ok {
		return
	}

	stage, err := h.stageService.GetByID(c.Request.Context(), tenantID, stageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stage)
}

// List godoc
// @Summary      List stages
// @Description  List stages ordered by their position in the project
// @Tags         etapas
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        search query string false "Search by name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.StageResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /etapas [get]
func (h *StageHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter projectapp.StageListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	stages, total, err := h.stageService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, stages, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a stage
// @Description  Update a stage. Changing the planned percentage recomputes the project's progress.
// @Tags         etapas
// @Accept       json
// @Produce      json
// @Param        id path string true "Stage ID" format(uuid)
// @Param        request body projectapp.UpdateStageRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=projectapp.StageMutationResult}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /etapas/{id} [put]
func (h *StageHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stageID, ok := h.parseID(c, "stage")
	if !ok {
		return
	}

	var req projectapp.UpdateStageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.stageService.Update(c.Request.Context(), tenantID, stageID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @Summary      Delete a stage
// @Description  Delete a stage and return the project with its recomputed progress
// @Tags         etapas
// @Produce      json
// @Param        id path string true "Stage ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.StageMutationResult}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /etapas/{id} [delete]
func (h *StageHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stageID, ok := h.parseID(c, "stage")
	if !ok {
		return
	}

	result, err := h.stageService.Delete(c.Request.Context(), tenantID, stageID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

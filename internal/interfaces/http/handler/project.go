package handler

import (
	projectapp "github.com/erp-obras/backend/internal/application/project"
	"github.com/gin-gonic/gin"
)

// ProjectHandler handles project (obra) endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create godoc
// @Summary      Create a project
// @Description  Create a construction project (obra) for the caller's company
// @Tags         obras
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateProjectRequest true "Project data"
// @Success      201 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /obras [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req projectapp.CreateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, project)
}

// GetByID godoc
// @Summary      Get a project
// @Description  Retrieve a project by its ID
// @Tags         obras
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /obras/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.parseID(c, "project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), tenantID, projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// List godoc
// @Summary      List projects
// @Description  List the company's projects, newest first
// @Tags         obras
// @Produce      json
// @Param        search query string false "Search by name, client or city"
// @Param        status query string false "Project status" Enums(IN_PROGRESS, COMPLETED, PAUSED, LATE, CANCELLED)
// @Param        clienteNome query string false "Client name"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.ProjectResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /obras [get]
func (h *ProjectHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter projectapp.ProjectListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	projects, total, err := h.projectService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, projects, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a project
// @Description  Update a project. Progress can only be set while the project has no stages.
// @Tags         obras
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Param        request body projectapp.UpdateProjectRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /obras/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.parseID(c, "project")
	if !ok {
		return
	}

	var req projectapp.UpdateProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), tenantID, projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// Delete godoc
// @Summary      Delete a project
// @Description  Delete a project. Refused while stages, measurements or financial entries reference it.
// @Tags         obras
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /obras/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	projectID, ok := h.parseID(c, "project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), tenantID, projectID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	identityapp "github.com/erp-obras/backend/internal/application/identity"
	projectapp "github.com/erp-obras/backend/internal/application/project"
	"github.com/erp-obras/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CommentHandler handles project comment endpoints
type CommentHandler struct {
	BaseHandler
	commentService *projectapp.CommentService
	authService    *identityapp.AuthService
}

// NewCommentHandler creates a new CommentHandler. The auth service resolves
// the author's display name; without it the JWT email is used.
func NewCommentHandler(commentService *projectapp.CommentService, authService *identityapp.AuthService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authService:    authService,
	}
}

// author identifies the caller from the JWT claims
func (h *CommentHandler) author(c *gin.Context) (projectapp.CommentAuthor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return projectapp.CommentAuthor{}, false
	}
	author := projectapp.CommentAuthor{ID: userID, Name: middleware.GetJWTEmail(c)}
	if h.authService != nil {
		if tenantID, err := getTenantID(c); err == nil {
			if info, err := h.authService.Me(c.Request.Context(), tenantID, userID); err == nil {
				author.Name = info.Name
			}
		}
	}
	return author, true
}

// Create godoc
// @Summary      Comment on a project
// @Description  Add a comment authored by the calling user
// @Tags         comentarios
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateCommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=projectapp.CommentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /comentarios [post]
func (h *CommentHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req projectapp.CreateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	author, ok := h.author(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), tenantID, author, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, comment)
}

// GetByID godoc
// @Summary      Get a comment
// @Tags         comentarios
// @Produce      json
// @Param        id path string true "Comment ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.CommentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /comentarios/{id} [get]
func (h *CommentHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	commentID, ok := h.parseID(c, "comment")
	if !ok {
		return
	}

	comment, err := h.commentService.GetByID(c.Request.Context(), tenantID, commentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comment)
}

// List godoc
// @Summary      List comments
// @Description  List a project's comments. Hidden comments are left out unless incluirOcultos is set.
// @Tags         comentarios
// @Produce      json
// @Param        obraId query string false "Project ID" format(uuid)
// @Param        incluirOcultos query bool false "Include hidden comments"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.CommentResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /comentarios [get]
func (h *CommentHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var filter projectapp.CommentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	if filter.ProjectID, ok = h.queryUUID(c, "obraId"); !ok {
		return
	}
	filter.Page, filter.PageSize = pageDefaults(filter.Page, filter.PageSize)

	comments, total, err := h.commentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, comments, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Edit a comment
// @Tags         comentarios
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID" format(uuid)
// @Param        request body projectapp.UpdateCommentRequest true "New text"
// @Success      200 {object} dto.Response{data=projectapp.CommentResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /comentarios/{id} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	commentID, ok := h.parseID(c, "comment")
	if !ok {
		return
	}

	var req projectapp.UpdateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), tenantID, commentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comment)
}

// Hide godoc
// @Summary      Hide a comment
// @Tags         comentarios
// @Produce      json
// @Param        id path string true "Comment ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.CommentResponse}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /comentarios/{id}/ocultar [post]
func (h *CommentHandler) Hide(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	commentID, ok := h.parseID(c, "comment")
	if !ok {
		return
	}

	comment, err := h.commentService.Hide(c.Request.Context(), tenantID, commentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, comment)
}

// Delete godoc
// @Summary      Delete a comment
// @Description  Comments are soft deleted: the comment is hidden
// @Tags         comentarios
// @Param        id path string true "Comment ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /comentarios/{id} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	commentID, ok := h.parseID(c, "comment")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), tenantID, commentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

package project

import (
	"context"
	"errors"

	appevent "github.com/erp-obras/backend/internal/application/event"
	"github.com/erp-obras/backend/internal/domain/project"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentService handles the per-project comment thread. Comments are
// never removed, only hidden.
type CommentService struct {
	commentRepo    project.CommentRepository
	projectRepo    project.ProjectRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo project.CommentRepository, projectRepo project.ProjectRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *CommentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a comment to a project
func (s *CommentService) Create(ctx context.Context, tenantID uuid.UUID, author CommentAuthor, req CreateCommentRequest) (*CommentResponse, error) {
	if _, err := findProject(ctx, s.projectRepo, tenantID, req.ProjectID); err != nil {
		return nil, err
	}

	var authorID *uuid.UUID
	if author.ID != uuid.Nil {
		id := author.ID
		authorID = &id
	}
	c, err := project.NewComment(tenantID, req.ProjectID, authorID, author.Name, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, c)

	response := ToCommentResponse(c)
	return &response, nil
}

// GetByID retrieves a comment by ID
func (s *CommentService) GetByID(ctx context.Context, tenantID, commentID uuid.UUID) (*CommentResponse, error) {
	c, err := s.find(ctx, tenantID, commentID)
	if err != nil {
		return nil, err
	}
	response := ToCommentResponse(c)
	return &response, nil
}

// List retrieves comments, newest first. Hidden comments are left out
// unless requested.
func (s *CommentService) List(ctx context.Context, tenantID uuid.UUID, filter CommentListFilter) ([]CommentResponse, int64, error) {
	page, pageSize := pageDefaults(filter.Page, filter.PageSize)
	domainFilter := project.CommentFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		},
		ProjectID:     filter.ProjectID,
		IncludeHidden: filter.IncludeHidden,
	}

	comments, err := s.commentRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.commentRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CommentResponse, len(comments))
	for i := range comments {
		responses[i] = ToCommentResponse(&comments[i])
	}
	return responses, total, nil
}

// Update edits the comment text
func (s *CommentService) Update(ctx context.Context, tenantID, commentID uuid.UUID, req UpdateCommentRequest) (*CommentResponse, error) {
	c, err := s.find(ctx, tenantID, commentID)
	if err != nil {
		return nil, err
	}
	if err := c.Edit(req.Text); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToCommentResponse(c)
	return &response, nil
}

// Hide soft-deletes a comment
func (s *CommentService) Hide(ctx context.Context, tenantID, commentID uuid.UUID) (*CommentResponse, error) {
	c, err := s.find(ctx, tenantID, commentID)
	if err != nil {
		return nil, err
	}
	c.Hide()
	if err := s.commentRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	appevent.PublishPending(ctx, s.eventPublisher, s.logger, c)

	response := ToCommentResponse(c)
	return &response, nil
}

// Delete hides the comment; the DELETE route maps onto the soft delete
func (s *CommentService) Delete(ctx context.Context, tenantID, commentID uuid.UUID) error {
	_, err := s.Hide(ctx, tenantID, commentID)
	return err
}

func (s *CommentService) find(ctx context.Context, tenantID, commentID uuid.UUID) (*project.Comment, error) {
	c, err := s.commentRepo.FindByIDForTenant(ctx, tenantID, commentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Comment")
		}
		return nil, err
	}
	return c, nil
}

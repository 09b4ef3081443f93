package project

import (
	"strings"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Comment is an entry in a project's comment thread
type Comment struct {
	shared.TenantAggregateRoot
	ProjectID  uuid.UUID
	AuthorID   *uuid.UUID
	AuthorName string
	Text       string
	Hidden     bool
}

// NewComment creates a visible comment
func NewComment(tenantID, projectID uuid.UUID, authorID *uuid.UUID, authorName, text string) (*Comment, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_TEXT", "Comment text cannot be empty")
	}
	if len(text) > 4000 {
		return nil, shared.NewDomainError("INVALID_TEXT", "Comment text cannot exceed 4000 characters")
	}

	c := &Comment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		AuthorID:            authorID,
		AuthorName:          strings.TrimSpace(authorName),
		Text:                text,
	}
	if authorID != nil {
		c.SetCreatedBy(*authorID)
	}
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeComment, shared.ActionCreated, c.ID, tenantID, "Comment added"))
	return c, nil
}

// Edit replaces the comment text
func (c *Comment) Edit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return shared.NewDomainError("INVALID_TEXT", "Comment text cannot be empty")
	}
	c.Text = text
	c.Touch()
	return nil
}

// Hide soft-deletes the comment. Hiding twice is harmless.
func (c *Comment) Hide() {
	if c.Hidden {
		return
	}
	c.Hidden = true
	c.Touch()
	c.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeComment, "HIDDEN", c.ID, c.TenantID, "Comment hidden"))
}

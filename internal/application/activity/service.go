// Package activity records and lists the append-only audit log of a tenant.
package activity

import (
	"context"
	"errors"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles activity log reads and manual appends
type Service struct {
	repo   activity.Repository
	logger *zap.Logger
}

// NewService creates a new activity Service
func NewService(repo activity.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Append records an activity on behalf of a user
func (s *Service) Append(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, req AppendRequest) (*EntryResponse, error) {
	entry, err := activity.NewEntry(tenantID, userID, req.Action, req.EntityType, req.EntityID, req.Description, req.Details)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByID returns one activity record
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Activity log entry")
		}
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// List returns the most recent activity of a tenant, newest first
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]EntryResponse, error) {
	entries, err := s.repo.ListForTenant(ctx, tenantID, activity.Filter{
		Limit:      filter.Limit,
		EntityType: filter.EntityType,
		EntityID:   filter.EntityID,
		UserID:     filter.UserID,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses, nil
}

package activity

import (
	"context"
	"fmt"

	"github.com/erp-obras/backend/internal/domain/activity"
	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserResolver returns the user acting in ctx, or nil for system work
type UserResolver func(ctx context.Context) *uuid.UUID

// Recorder writes an audit row for every domain event it receives
type Recorder struct {
	repo       activity.Repository
	actingUser UserResolver
	logger     *zap.Logger
}

// NewRecorder creates a Recorder. actingUser may be nil.
func NewRecorder(repo activity.Repository, actingUser UserResolver, logger *zap.Logger) *Recorder {
	if actingUser == nil {
		actingUser = func(context.Context) *uuid.UUID { return nil }
	}
	return &Recorder{repo: repo, actingUser: actingUser, logger: logger}
}

// EventTypes returns nil; the recorder subscribes to all events
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle appends the event to the tenant's activity log
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.TenantID() == uuid.Nil {
		return nil
	}
	entry, err := activity.FromEvent(event, r.actingUser(ctx))
	if err != nil {
		return fmt.Errorf("build activity entry: %w", err)
	}
	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Warn("failed to record activity",
			zap.String("event_type", event.EventType()),
			zap.String("tenant_id", event.TenantID().String()),
			zap.Error(err))
		return err
	}
	return nil
}

var _ shared.EventHandler = (*Recorder)(nil)

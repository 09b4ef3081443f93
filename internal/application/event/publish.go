package event

import (
	"context"

	"github.com/erp-obras/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PublishPending publishes the pending domain events of each aggregate and
// clears them. It runs after the write has committed, so a publish failure
// is logged and never undoes the operation.
func PublishPending(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, roots ...shared.AggregateRoot) {
	for _, root := range roots {
		if root == nil {
			continue
		}
		events := root.GetDomainEvents()
		root.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil && logger != nil {
			logger.Warn("Failed to publish domain events",
				zap.String("aggregate_id", root.GetID().String()),
				zap.Int("event_count", len(events)),
				zap.Error(err))
		}
	}
}

package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists audit records. There is no update or delete.
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)
	// ListForTenant returns the most recent entries first
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter Filter) ([]Entry, error)
}

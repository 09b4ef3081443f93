package activity

import (
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxListSize caps how many rows a listing may return per tenant
const MaxListSize = 1000

// Entry is one append-only audit record
type Entry struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	UserID      *uuid.UUID
	Action      string
	EntityType  string
	EntityID    *uuid.UUID
	Description string
	Details     map[string]any
	CreatedAt   time.Time
}

// NewEntry creates a new audit record
func NewEntry(tenantID uuid.UUID, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, description string, details map[string]any) (*Entry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, shared.NewValidationError("Action cannot be empty")
	}
	if details == nil {
		details = map[string]any{}
	}
	if userID != nil && *userID == uuid.Nil {
		userID = nil
	}
	return &Entry{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		Action:      action,
		EntityType:  strings.TrimSpace(entityType),
		EntityID:    entityID,
		Description: description,
		Details:     details,
		CreatedAt:   time.Now(),
	}, nil
}

// FromEvent builds an audit record from a domain event
func FromEvent(event shared.DomainEvent, userID *uuid.UUID) (*Entry, error) {
	description := event.EventType()
	if d, ok := event.(shared.Describer); ok {
		description = d.Describe()
	}
	aggID := event.AggregateID()
	details := map[string]any{
		"event_id":   event.EventID().String(),
		"event_type": event.EventType(),
	}
	return NewEntry(event.TenantID(), userID, event.EventType(), event.AggregateType(), &aggID, description, details)
}

// Filter narrows activity listings
type Filter struct {
	Limit      int
	EntityType string
	EntityID   *uuid.UUID
	UserID     *uuid.UUID
}

// EffectiveLimit clamps the requested limit to MaxListSize
func (f Filter) EffectiveLimit() int {
	if f.Limit <= 0 || f.Limit > MaxListSize {
		return MaxListSize
	}
	return f.Limit
}

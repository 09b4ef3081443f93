package shared

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to a record of one company.
// Subscribers receive it after the originating write has committed.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// BaseDomainEvent carries the header every event shares. Concrete events
// embed it and add exported payload fields. The header stays out of the JSON
// form because the Kafka envelope already carries it.
type BaseDomainEvent struct {
	id        uuid.UUID
	kind      string
	at        time.Time
	aggregate uuid.UUID
	aggKind   string
	tenant    uuid.UUID
}

func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		id:        uuid.New(),
		kind:      eventType,
		at:        time.Now(),
		aggregate: aggID,
		aggKind:   aggType,
		tenant:    tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.id }
func (e *BaseDomainEvent) EventType() string      { return e.kind }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.at }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.aggregate }
func (e *BaseDomainEvent) AggregateType() string  { return e.aggKind }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.tenant }

// Describer is implemented by events that carry a human-readable summary
// for the activity log.
type Describer interface {
	Describe() string
}

// Entity change actions
const (
	ActionCreated = "CREATED"
	ActionUpdated = "UPDATED"
	ActionDeleted = "DELETED"
)

// EntityChangedEvent is a generic CRUD event raised by application services
// for records whose lifecycle carries no richer domain event.
type EntityChangedEvent struct {
	BaseDomainEvent
	Action      string `json:"action"`
	Description string `json:"description"`
}

// NewEntityChangedEvent creates an EntityChangedEvent. The event type is
// "<AggregateType>.<action>" in lower case, e.g. "Client.created".
func NewEntityChangedEvent(aggType, action string, aggID, tenantID uuid.UUID, description string) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseDomainEvent: NewBaseDomainEvent(aggType+"."+strings.ToLower(action), aggType, aggID, tenantID),
		Action:          action,
		Description:     description,
	}
}

func (e *EntityChangedEvent) Describe() string {
	return e.Description
}

// EventHandler reacts to published events. An empty EventTypes subscribes
// the handler to every event.
type EventHandler interface {
	Handle(context.Context, DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on.
type EventPublisher interface {
	Publish(context.Context, ...DomainEvent) error
}

// EventBus routes published events to subscribed handlers. Explicit types
// passed to Subscribe override the handler's own EventTypes.
type EventBus interface {
	EventPublisher
	Subscribe(h EventHandler, types ...string)
	Unsubscribe(h EventHandler)
	Start(context.Context) error
	Stop(context.Context) error
}

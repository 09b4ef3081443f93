package finance

import (
	"fmt"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeFinancialEntry = "FinancialEntry"
	AggregateTypeInvoice        = "Invoice"
)

// Event types
const (
	EventTypeEntryCreated         = "FinancialEntryCreated"
	EventTypeEntryPaid            = "FinancialEntryPaid"
	EventTypeEntriesMarkedOverdue = "FinancialEntriesMarkedOverdue"
)

// EntryCreatedEvent is raised when a financial entry is created
type EntryCreatedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID       `json:"project_id"`
	Type        EntryType       `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      EntryStatus     `json:"status"`
	SourceType  SourceType      `json:"source_type"`
}

// NewEntryCreatedEvent creates a new EntryCreatedEvent
func NewEntryCreatedEvent(e *FinancialEntry) *EntryCreatedEvent {
	return &EntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryCreated, AggregateTypeFinancialEntry, e.ID, e.TenantID),
		ProjectID:       e.ProjectID,
		Type:            e.Type,
		Description:     e.Description,
		Amount:          e.Amount,
		Status:          e.Status,
		SourceType:      e.SourceType,
	}
}

// Describe implements shared.Describer
func (e *EntryCreatedEvent) Describe() string {
	return fmt.Sprintf("%s entry %q created (%s, %s)", e.Type, e.Description, e.Amount.StringFixed(2), e.Status)
}

// EntryPaidEvent is raised when a financial entry is settled
type EntryPaidEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID       `json:"project_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewEntryPaidEvent creates a new EntryPaidEvent
func NewEntryPaidEvent(e *FinancialEntry) *EntryPaidEvent {
	return &EntryPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryPaid, AggregateTypeFinancialEntry, e.ID, e.TenantID),
		ProjectID:       e.ProjectID,
		Description:     e.Description,
		Amount:          e.Amount,
	}
}

// Describe implements shared.Describer
func (e *EntryPaidEvent) Describe() string {
	return fmt.Sprintf("Entry %q paid (%s)", e.Description, e.Amount.StringFixed(2))
}

// EntriesMarkedOverdueEvent is raised by an overdue sweep that changed at least one entry
type EntriesMarkedOverdueEvent struct {
	shared.BaseDomainEvent
	Count int64 `json:"count"`
}

// NewEntriesMarkedOverdueEvent creates a new EntriesMarkedOverdueEvent.
// The aggregate ID is the tenant since the sweep spans many entries.
func NewEntriesMarkedOverdueEvent(tenantID uuid.UUID, count int64) *EntriesMarkedOverdueEvent {
	return &EntriesMarkedOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntriesMarkedOverdue, AggregateTypeFinancialEntry, tenantID, tenantID),
		Count:           count,
	}
}

// Describe implements shared.Describer
func (e *EntriesMarkedOverdueEvent) Describe() string {
	return fmt.Sprintf("%d financial entries marked overdue", e.Count)
}

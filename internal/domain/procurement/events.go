package procurement

import (
	"fmt"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type names
const (
	AggregateTypeQuotation    = "Quotation"
	AggregateTypePurchaseItem = "PurchaseItem"
)

// Event types
const (
	EventTypeQuotationReceived     = "QuotationReceived"
	EventTypeQuotationApproved     = "QuotationApproved"
	EventTypeQuotationRejected     = "QuotationRejected"
	EventTypePurchaseItemPurchased = "PurchaseItemPurchased"
)

// QuotationStatusChangedEvent is raised when a quotation is received, approved or rejected
type QuotationStatusChangedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID       `json:"project_id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      QuotationStatus `json:"status"`
}

// NewQuotationStatusChangedEvent creates a new QuotationStatusChangedEvent
func NewQuotationStatusChangedEvent(q *Quotation, eventType string) *QuotationStatusChangedEvent {
	return &QuotationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeQuotation, q.ID, q.TenantID),
		ProjectID:       q.ProjectID,
		VendorID:        q.VendorID,
		Description:     q.Description,
		Amount:          q.Amount,
		Status:          q.Status,
	}
}

// Describe implements shared.Describer
func (e *QuotationStatusChangedEvent) Describe() string {
	return fmt.Sprintf("Quotation %q %s (%s)", e.Description, e.Status, e.Amount.StringFixed(2))
}

// PurchaseItemPurchasedEvent is raised when an item is bought
type PurchaseItemPurchasedEvent struct {
	shared.BaseDomainEvent
	ProjectID   uuid.UUID       `json:"project_id"`
	QuotationID *uuid.UUID      `json:"quotation_id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewPurchaseItemPurchasedEvent creates a new PurchaseItemPurchasedEvent
func NewPurchaseItemPurchasedEvent(i *PurchaseItem) *PurchaseItemPurchasedEvent {
	return &PurchaseItemPurchasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseItemPurchased, AggregateTypePurchaseItem, i.ID, i.TenantID),
		ProjectID:       i.ProjectID,
		QuotationID:     i.QuotationID,
		Description:     i.Description,
		Amount:          i.PlannedAmount,
	}
}

// Describe implements shared.Describer
func (e *PurchaseItemPurchasedEvent) Describe() string {
	return fmt.Sprintf("Purchase item %q purchased (%s)", e.Description, e.Amount.StringFixed(2))
}

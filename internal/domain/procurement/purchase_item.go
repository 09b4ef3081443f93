package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the status of a purchase list item
type PurchaseStatus string

const (
	PurchaseStatusPlanned   PurchaseStatus = "PLANNED"
	PurchaseStatusPurchased PurchaseStatus = "PURCHASED"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	return s == PurchaseStatusPlanned || s == PurchaseStatusPurchased
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// PurchaseItemDetails holds the editable fields of a purchase item
type PurchaseItemDetails struct {
	StageID       *uuid.UUID
	Description   string
	Quantity      decimal.Decimal
	Unit          string
	PlannedAmount decimal.Decimal
	PlannedDate   time.Time
}

// PurchaseItem (item da lista de compras) is a planned or purchased procurement item
type PurchaseItem struct {
	shared.TenantAggregateRoot
	ProjectID     uuid.UUID
	StageID       *uuid.UUID
	QuotationID   *uuid.UUID
	Description   string
	Quantity      decimal.Decimal
	Unit          string
	PlannedAmount decimal.Decimal
	PlannedDate   time.Time
	Status        PurchaseStatus
	PurchasedAt   *time.Time
}

// NewPurchaseItem creates a PLANNED purchase item
func NewPurchaseItem(tenantID, projectID uuid.UUID, details PurchaseItemDetails) (*PurchaseItem, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validatePurchaseItem(details); err != nil {
		return nil, err
	}
	item := &PurchaseItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Status:              PurchaseStatusPlanned,
	}
	item.applyDetails(details)

	item.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypePurchaseItem, shared.ActionCreated, item.ID, tenantID,
		fmt.Sprintf("Purchase item %q planned", item.Description)))
	return item, nil
}

// NewPurchaseItemFromQuotation creates the PURCHASED item generated when a
// quotation is approved: planned date today, amount equal to the quotation value.
func NewPurchaseItemFromQuotation(q *Quotation, now time.Time) *PurchaseItem {
	today := shared.DateOf(now)
	quotationID := q.ID
	item := &PurchaseItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(q.TenantID),
		ProjectID:           q.ProjectID,
		QuotationID:         &quotationID,
		Description:         q.Description,
		Quantity:            decimal.NewFromInt(1),
		Unit:                "un",
		PlannedAmount:       q.Amount,
		PlannedDate:         today,
		Status:              PurchaseStatusPurchased,
		PurchasedAt:         &now,
	}
	item.AddDomainEvent(NewPurchaseItemPurchasedEvent(item))
	return item
}

// Update replaces the editable fields
func (i *PurchaseItem) Update(details PurchaseItemDetails) error {
	if err := validatePurchaseItem(details); err != nil {
		return err
	}
	i.applyDetails(details)
	i.Touch()
	return nil
}

// MarkPurchased moves a PLANNED item to PURCHASED
func (i *PurchaseItem) MarkPurchased(now time.Time) error {
	if i.Status == PurchaseStatusPurchased {
		return shared.NewDomainError("INVALID_STATE", "Item is already purchased")
	}
	i.Status = PurchaseStatusPurchased
	i.PurchasedAt = &now
	i.UpdatedAt = now

	i.AddDomainEvent(NewPurchaseItemPurchasedEvent(i))
	return nil
}

// IsPlanned reports whether the item is still to be bought
func (i *PurchaseItem) IsPlanned() bool {
	return i.Status == PurchaseStatusPlanned
}

// DaysUntilDue returns the calendar days from now to the planned date
func (i *PurchaseItem) DaysUntilDue(now time.Time) int {
	return shared.DaysBetween(now, i.PlannedDate)
}

// MarkDeleted raises the deletion event
func (i *PurchaseItem) MarkDeleted() {
	i.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypePurchaseItem, shared.ActionDeleted, i.ID, i.TenantID,
		fmt.Sprintf("Purchase item %q deleted", i.Description)))
}

func (i *PurchaseItem) applyDetails(d PurchaseItemDetails) {
	i.StageID = d.StageID
	i.Description = strings.TrimSpace(d.Description)
	i.Quantity = d.Quantity
	if i.Quantity.IsZero() {
		i.Quantity = decimal.NewFromInt(1)
	}
	i.Unit = strings.TrimSpace(d.Unit)
	if i.Unit == "" {
		i.Unit = "un"
	}
	i.PlannedAmount = d.PlannedAmount
	i.PlannedDate = shared.DateOf(d.PlannedDate)
}

func validatePurchaseItem(d PurchaseItemDetails) error {
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if d.PlannedAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Planned amount cannot be negative")
	}
	if d.Quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if d.PlannedDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Planned date is required")
	}
	return nil
}

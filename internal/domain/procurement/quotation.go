package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the status of a vendor quotation
type QuotationStatus string

const (
	QuotationStatusRequested QuotationStatus = "REQUESTED"
	QuotationStatusReceived  QuotationStatus = "RECEIVED"
	QuotationStatusApproved  QuotationStatus = "APPROVED"
	QuotationStatusRejected  QuotationStatus = "REJECTED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusRequested, QuotationStatusReceived, QuotationStatusApproved, QuotationStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanDecide returns true if the quotation can be approved or rejected
func (s QuotationStatus) CanDecide() bool {
	return s == QuotationStatusRequested || s == QuotationStatusReceived
}

// QuotationDetails holds the editable fields of a quotation
type QuotationDetails struct {
	VendorID    uuid.UUID
	Description string
	Amount      decimal.Decimal
}

// Quotation (cotação) is a vendor price offer for a project
type Quotation struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	VendorID    uuid.UUID
	Description string
	Amount      decimal.Decimal
	Status      QuotationStatus
	ReceivedAt  *time.Time
	ApprovedAt  *time.Time
	RejectedAt  *time.Time
}

// NewQuotation creates a quotation in REQUESTED status
func NewQuotation(tenantID, projectID uuid.UUID, details QuotationDetails) (*Quotation, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validateQuotation(details); err != nil {
		return nil, err
	}
	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Status:              QuotationStatusRequested,
	}
	q.applyDetails(details)

	q.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeQuotation, shared.ActionCreated, q.ID, tenantID,
		fmt.Sprintf("Quotation %q requested", q.Description)))
	return q, nil
}

// Update replaces the editable fields. Decided quotations are frozen.
func (q *Quotation) Update(details QuotationDetails) error {
	if !q.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot update quotation in %s status", q.Status))
	}
	if err := validateQuotation(details); err != nil {
		return err
	}
	q.applyDetails(details)
	q.Touch()
	return nil
}

// Receive records that the vendor answered the request
func (q *Quotation) Receive(now time.Time) error {
	if q.Status != QuotationStatusRequested {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive quotation in %s status", q.Status))
	}
	q.Status = QuotationStatusReceived
	q.ReceivedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, EventTypeQuotationReceived))
	return nil
}

// Approve approves the quotation. The caller creates the financial entry
// and purchase item in the same transaction.
func (q *Quotation) Approve(now time.Time) error {
	if q.Status == QuotationStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Quotation is already approved")
	}
	if !q.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve quotation in %s status", q.Status))
	}
	q.Status = QuotationStatusApproved
	q.ApprovedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, EventTypeQuotationApproved))
	return nil
}

// Reject rejects the quotation
func (q *Quotation) Reject(now time.Time) error {
	if !q.Status.CanDecide() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject quotation in %s status", q.Status))
	}
	q.Status = QuotationStatusRejected
	q.RejectedAt = &now
	q.UpdatedAt = now

	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, EventTypeQuotationRejected))
	return nil
}

// MarkDeleted raises the deletion event
func (q *Quotation) MarkDeleted() {
	q.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeQuotation, shared.ActionDeleted, q.ID, q.TenantID,
		fmt.Sprintf("Quotation %q deleted", q.Description)))
}

func (q *Quotation) applyDetails(d QuotationDetails) {
	q.VendorID = d.VendorID
	q.Description = strings.TrimSpace(d.Description)
	q.Amount = d.Amount
}

func validateQuotation(d QuotationDetails) error {
	if d.VendorID == uuid.Nil {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return nil
}

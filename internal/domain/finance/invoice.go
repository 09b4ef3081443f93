package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceDetails holds the editable fields of an invoice
type InvoiceDetails struct {
	Number    string
	VendorID  uuid.UUID
	Amount    decimal.Decimal
	IssueDate time.Time
	EntryID   uuid.UUID
}

// Invoice (nota fiscal) documents a vendor charge. It always references an
// existing financial entry.
type Invoice struct {
	shared.TenantAggregateRoot
	ProjectID     uuid.UUID
	Number        string
	VendorID      uuid.UUID
	Amount        decimal.Decimal
	IssueDate     time.Time
	EntryID       uuid.UUID
	AttachmentKey string
}

// NewInvoice creates an invoice. The entry must belong to the same tenant;
// the caller verifies it exists before calling.
func NewInvoice(tenantID, projectID uuid.UUID, details InvoiceDetails) (*Invoice, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validateInvoice(details); err != nil {
		return nil, err
	}
	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
	}
	inv.applyDetails(details)

	inv.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeInvoice, shared.ActionCreated, inv.ID, tenantID,
		fmt.Sprintf("Invoice %s registered (%s)", inv.Number, inv.Amount.StringFixed(2))))
	return inv, nil
}

// Update replaces the editable fields
func (i *Invoice) Update(details InvoiceDetails) error {
	if err := validateInvoice(details); err != nil {
		return err
	}
	i.applyDetails(details)
	i.Touch()
	return nil
}

// AttachDocument records the storage key of the invoice document
func (i *Invoice) AttachDocument(key string) {
	i.AttachmentKey = key
	i.Touch()
}

// HasDocument reports whether a document was attached
func (i *Invoice) HasDocument() bool {
	return i.AttachmentKey != ""
}

// DocumentKey returns the storage key used for the invoice document
func (i *Invoice) DocumentKey(fileName string) string {
	return fmt.Sprintf("tenants/%s/invoices/%s/%s", i.TenantID, i.ID, fileName)
}

// MarkDeleted raises the deletion event
func (i *Invoice) MarkDeleted() {
	i.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeInvoice, shared.ActionDeleted, i.ID, i.TenantID,
		fmt.Sprintf("Invoice %s deleted", i.Number)))
}

func (i *Invoice) applyDetails(d InvoiceDetails) {
	i.Number = strings.TrimSpace(d.Number)
	i.VendorID = d.VendorID
	i.Amount = d.Amount
	i.IssueDate = shared.DateOf(d.IssueDate)
	i.EntryID = d.EntryID
}

func validateInvoice(d InvoiceDetails) error {
	if strings.TrimSpace(d.Number) == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if d.VendorID == uuid.Nil {
		return shared.NewDomainError("INVALID_VENDOR", "Vendor is required")
	}
	if d.EntryID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENTRY", "An invoice must reference a financial entry")
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if d.IssueDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Issue date is required")
	}
	return nil
}

package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType distinguishes revenue from expense entries
type EntryType string

const (
	EntryTypeRevenue EntryType = "REVENUE"
	EntryTypeExpense EntryType = "EXPENSE"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	return t == EntryTypeRevenue || t == EntryTypeExpense
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// EntryStatus represents the payment status of a financial entry
type EntryStatus string

const (
	EntryStatusPending EntryStatus = "PENDING"
	EntryStatusPaid    EntryStatus = "PAID"
	EntryStatusOverdue EntryStatus = "OVERDUE"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusPending, EntryStatusPaid, EntryStatusOverdue:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// IsOpen returns true for entries still to be paid
func (s EntryStatus) IsOpen() bool {
	return s == EntryStatusPending || s == EntryStatusOverdue
}

// SourceType identifies the record that generated an entry
type SourceType string

const (
	SourceTypeManual      SourceType = "MANUAL"
	SourceTypeQuotation   SourceType = "QUOTATION"
	SourceTypeMeasurement SourceType = "MEASUREMENT"
)

// Categories assigned by the workflow triggers
const (
	CategoryQuotation   = "Quotation"
	CategoryMeasurement = "Measurement"
)

// EntryDetails holds the editable fields of a financial entry
type EntryDetails struct {
	Type        EntryType
	VendorID    *uuid.UUID
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Category    string
}

// FinancialEntry (lançamento) is a revenue or expense ledger entry of a project
type FinancialEntry struct {
	shared.TenantAggregateRoot
	ProjectID   uuid.UUID
	Type        EntryType
	VendorID    *uuid.UUID
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	PaymentDate *time.Time
	Status      EntryStatus
	Category    string
	SourceType  SourceType
	SourceID    *uuid.UUID
}

// NewFinancialEntry creates a PENDING manual entry
func NewFinancialEntry(tenantID, projectID uuid.UUID, details EntryDetails) (*FinancialEntry, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validateEntry(details); err != nil {
		return nil, err
	}
	e := &FinancialEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Status:              EntryStatusPending,
		SourceType:          SourceTypeManual,
	}
	e.applyDetails(details)

	e.AddDomainEvent(NewEntryCreatedEvent(e))
	return e, nil
}

// NewQuotationExpense creates the PENDING expense generated by a quotation
// approval, due today.
func NewQuotationExpense(tenantID, projectID, quotationID uuid.UUID, vendorID *uuid.UUID, description string, amount decimal.Decimal, now time.Time) *FinancialEntry {
	e := &FinancialEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Type:                EntryTypeExpense,
		VendorID:            vendorID,
		Description:         fmt.Sprintf("Quotation: %s", description),
		Amount:              amount,
		DueDate:             shared.DateOf(now),
		Status:              EntryStatusPending,
		Category:            CategoryQuotation,
		SourceType:          SourceTypeQuotation,
		SourceID:            &quotationID,
	}
	e.AddDomainEvent(NewEntryCreatedEvent(e))
	return e
}

// NewMeasurementExpense creates the PAID expense generated by paying a
// measurement: due on the measurement date, paid today.
func NewMeasurementExpense(tenantID, projectID, measurementID uuid.UUID, description string, amount decimal.Decimal, measuredAt, now time.Time) *FinancialEntry {
	paid := shared.DateOf(now)
	e := &FinancialEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Type:                EntryTypeExpense,
		Description:         fmt.Sprintf("Measurement: %s", description),
		Amount:              amount,
		DueDate:             shared.DateOf(measuredAt),
		PaymentDate:         &paid,
		Status:              EntryStatusPaid,
		Category:            CategoryMeasurement,
		SourceType:          SourceTypeMeasurement,
		SourceID:            &measurementID,
	}
	e.AddDomainEvent(NewEntryCreatedEvent(e))
	return e
}

// Update replaces the editable fields. Paid entries keep their amount.
func (e *FinancialEntry) Update(details EntryDetails) error {
	if err := validateEntry(details); err != nil {
		return err
	}
	if e.Status == EntryStatusPaid && !details.Amount.Equal(e.Amount) {
		return shared.NewDomainError("INVALID_STATE", "Cannot change the amount of a paid entry")
	}
	e.applyDetails(details)
	if e.Status == EntryStatusOverdue && !shared.DateOf(e.DueDate).Before(shared.DateOf(time.Now())) {
		e.Status = EntryStatusPending
	}
	e.Touch()
	return nil
}

// MarkPaid settles the entry on the given payment date
func (e *FinancialEntry) MarkPaid(paymentDate time.Time) error {
	if e.Status == EntryStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Entry is already paid")
	}
	d := shared.DateOf(paymentDate)
	e.PaymentDate = &d
	e.Status = EntryStatusPaid
	e.Touch()

	e.AddDomainEvent(NewEntryPaidEvent(e))
	return nil
}

// IsOverdueAt reports whether a PENDING entry's due date is strictly before
// the calendar day of now
func (e *FinancialEntry) IsOverdueAt(now time.Time) bool {
	return e.Status == EntryStatusPending && shared.DateOf(e.DueDate).Before(shared.DateOf(now))
}

// MarkOverdue flips a PENDING entry past its due date to OVERDUE and
// reports whether it changed
func (e *FinancialEntry) MarkOverdue(now time.Time) bool {
	if !e.IsOverdueAt(now) {
		return false
	}
	e.Status = EntryStatusOverdue
	e.Touch()
	return true
}

// MarkDeleted raises the deletion event
func (e *FinancialEntry) MarkDeleted() {
	e.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeFinancialEntry, shared.ActionDeleted, e.ID, e.TenantID,
		fmt.Sprintf("Financial entry %q deleted", e.Description)))
}

func (e *FinancialEntry) applyDetails(d EntryDetails) {
	e.Type = d.Type
	e.VendorID = d.VendorID
	e.Description = strings.TrimSpace(d.Description)
	e.Amount = d.Amount
	e.DueDate = shared.DateOf(d.DueDate)
	e.Category = strings.TrimSpace(d.Category)
}

func validateEntry(d EntryDetails) error {
	if !d.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Entry type must be REVENUE or EXPENSE")
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if len(d.Description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if d.DueDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Due date is required")
	}
	return nil
}

package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MeasurementStatus represents the billing status of a measurement
type MeasurementStatus string

const (
	MeasurementStatusPending  MeasurementStatus = "PENDING"
	MeasurementStatusApproved MeasurementStatus = "APPROVED"
	MeasurementStatusPaid     MeasurementStatus = "PAID"
)

// IsValid checks if the status is a valid MeasurementStatus
func (s MeasurementStatus) IsValid() bool {
	switch s {
	case MeasurementStatusPending, MeasurementStatusApproved, MeasurementStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of MeasurementStatus
func (s MeasurementStatus) String() string {
	return string(s)
}

// IsOutstanding reports whether the measurement still awaits payment
func (s MeasurementStatus) IsOutstanding() bool {
	return s == MeasurementStatusPending || s == MeasurementStatusApproved
}

// MeasurementDetails holds the editable fields of a measurement
type MeasurementDetails struct {
	StageID         *uuid.UUID
	Description     string
	ExecutedPercent decimal.Decimal
	Amount          decimal.Decimal
	MeasuredAt      time.Time
}

// Measurement (medição) is a progress billing claim against a project
type Measurement struct {
	shared.TenantAggregateRoot
	ProjectID       uuid.UUID
	StageID         *uuid.UUID
	Description     string
	ExecutedPercent decimal.Decimal
	Amount          decimal.Decimal
	MeasuredAt      time.Time
	Status          MeasurementStatus
	EntryID         *uuid.UUID
	ApprovedAt      *time.Time
	PaidAt          *time.Time
}

// NewMeasurement creates a new PENDING measurement
func NewMeasurement(tenantID, projectID uuid.UUID, details MeasurementDetails) (*Measurement, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validateMeasurementDetails(details); err != nil {
		return nil, err
	}

	m := &Measurement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
		Status:              MeasurementStatusPending,
	}
	m.applyDetails(details)

	m.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeMeasurement, shared.ActionCreated, m.ID, tenantID,
		fmt.Sprintf("Measurement %q created", m.Description)))
	return m, nil
}

// Update replaces the editable fields. Paid measurements are frozen.
func (m *Measurement) Update(details MeasurementDetails) error {
	if m.Status == MeasurementStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a paid measurement")
	}
	if err := validateMeasurementDetails(details); err != nil {
		return err
	}
	m.applyDetails(details)
	m.Touch()

	m.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeMeasurement, shared.ActionUpdated, m.ID, m.TenantID,
		fmt.Sprintf("Measurement %q updated", m.Description)))
	return nil
}

// Approve moves a PENDING measurement to APPROVED
func (m *Measurement) Approve(now time.Time) error {
	if m.Status != MeasurementStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve measurement in %s status", m.Status))
	}
	m.Status = MeasurementStatusApproved
	m.ApprovedAt = &now
	m.UpdatedAt = now

	m.AddDomainEvent(NewMeasurementApprovedEvent(m))
	return nil
}

// IsPaid reports whether the measurement has been paid
func (m *Measurement) IsPaid() bool {
	return m.Status == MeasurementStatusPaid
}

// MarkPaid sets the measurement PAID with a back-reference to the financial
// entry generated for it.
func (m *Measurement) MarkPaid(entryID uuid.UUID, now time.Time) error {
	if m.IsPaid() {
		return shared.NewDomainError("ALREADY_PAID", "Measurement is already paid")
	}
	if entryID == uuid.Nil {
		return shared.NewDomainError("INVALID_ENTRY", "Generated entry ID cannot be empty")
	}
	m.Status = MeasurementStatusPaid
	m.EntryID = &entryID
	m.PaidAt = &now
	m.UpdatedAt = now

	m.AddDomainEvent(NewMeasurementPaidEvent(m))
	return nil
}

// DaysPending returns the whole days elapsed since the measurement date
func (m *Measurement) DaysPending(now time.Time) int {
	return shared.DaysBetween(m.MeasuredAt, now)
}

// MarkDeleted raises the deletion event
func (m *Measurement) MarkDeleted() {
	m.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeMeasurement, shared.ActionDeleted, m.ID, m.TenantID,
		fmt.Sprintf("Measurement %q deleted", m.Description)))
}

func (m *Measurement) applyDetails(d MeasurementDetails) {
	m.StageID = d.StageID
	m.Description = strings.TrimSpace(d.Description)
	m.ExecutedPercent = d.ExecutedPercent
	m.Amount = d.Amount
	m.MeasuredAt = shared.DateOf(d.MeasuredAt)
}

func validateMeasurementDetails(d MeasurementDetails) error {
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if err := validatePercent("Executed percentage", d.ExecutedPercent); err != nil {
		return err
	}
	if d.Amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Measured amount cannot be negative")
	}
	if d.MeasuredAt.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Measurement date is required")
	}
	return nil
}

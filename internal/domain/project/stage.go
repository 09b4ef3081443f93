package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// StageDetails holds the editable fields of a stage
type StageDetails struct {
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	PlannedPercent  decimal.Decimal
	ExecutedPercent decimal.Decimal
	Order           int
}

// Stage (etapa) is a weighted phase of a project
type Stage struct {
	shared.TenantAggregateRoot
	ProjectID       uuid.UUID
	Name            string
	Description     string
	StartDate       time.Time
	EndDate         time.Time
	PlannedPercent  decimal.Decimal
	ExecutedPercent decimal.Decimal
	Order           int
}

// NewStage creates a new stage for a project
func NewStage(tenantID, projectID uuid.UUID, details StageDetails) (*Stage, error) {
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if err := validateStageDetails(details); err != nil {
		return nil, err
	}

	s := &Stage{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProjectID:           projectID,
	}
	s.applyDetails(details)

	s.AddDomainEvent(NewStageChangedEvent(s, shared.ActionCreated))
	return s, nil
}

// Update replaces the editable fields of the stage
func (s *Stage) Update(details StageDetails) error {
	if err := validateStageDetails(details); err != nil {
		return err
	}
	s.applyDetails(details)
	s.Touch()

	s.AddDomainEvent(NewStageChangedEvent(s, shared.ActionUpdated))
	return nil
}

// MarkDeleted raises the deletion event
func (s *Stage) MarkDeleted() {
	s.AddDomainEvent(NewStageChangedEvent(s, shared.ActionDeleted))
}

// IsComplete reports whether the stage is fully executed
func (s *Stage) IsComplete() bool {
	return s.ExecutedPercent.GreaterThanOrEqual(hundred)
}

// IsNotStarted reports whether nothing has been executed yet
func (s *Stage) IsNotStarted() bool {
	return s.ExecutedPercent.IsZero()
}

// IsLate reports whether the end date has passed with work remaining
func (s *Stage) IsLate(now time.Time) bool {
	return shared.DateOf(s.EndDate).Before(shared.DateOf(now)) && s.ExecutedPercent.LessThan(hundred)
}

func (s *Stage) applyDetails(d StageDetails) {
	s.Name = strings.TrimSpace(d.Name)
	s.Description = d.Description
	s.StartDate = shared.DateOf(d.StartDate)
	s.EndDate = shared.DateOf(d.EndDate)
	s.PlannedPercent = d.PlannedPercent
	s.ExecutedPercent = d.ExecutedPercent
	s.Order = d.Order
}

func validateStageDetails(d StageDetails) error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Stage name cannot be empty")
	}
	if err := validatePercent("Planned percentage", d.PlannedPercent); err != nil {
		return err
	}
	if err := validatePercent("Executed percentage", d.ExecutedPercent); err != nil {
		return err
	}
	if d.StartDate.IsZero() || d.EndDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE_RANGE", "Stage start and end dates are required")
	}
	if shared.DateOf(d.EndDate).Before(shared.DateOf(d.StartDate)) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	return nil
}

func validatePercent(label string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_PERCENTAGE", fmt.Sprintf("%s must be between 0 and 100", label))
	}
	return nil
}

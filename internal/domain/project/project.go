package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/domain/shared"
	"github.com/erp-obras/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle status of a construction project
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
	ProjectStatusPaused     ProjectStatus = "PAUSED"
	ProjectStatusLate       ProjectStatus = "LATE"
	ProjectStatusCancelled  ProjectStatus = "CANCELLED"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusPaused,
		ProjectStatusLate, ProjectStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// DisplayName returns the label shown to users
func (s ProjectStatus) DisplayName() string {
	switch s {
	case ProjectStatusInProgress:
		return "Em andamento"
	case ProjectStatusCompleted:
		return "Concluída"
	case ProjectStatusPaused:
		return "Paralisada"
	case ProjectStatusLate:
		return "Atrasada"
	case ProjectStatusCancelled:
		return "Cancelada"
	default:
		return string(s)
	}
}

// IsHalted returns true for statuses the lateness rules never override
func (s ProjectStatus) IsHalted() bool {
	return s == ProjectStatusPaused || s == ProjectStatusCancelled
}

// ProjectDetails holds the user-editable fields of a project
type ProjectDetails struct {
	Name          string
	ClientID      *uuid.UUID
	ClientName    string
	Address       valueobject.Address
	StartDate     *time.Time
	EndDate       *time.Time
	MaterialsCost decimal.Decimal
	LaborCost     decimal.Decimal
}

// Project (obra) is the root tenant-scoped aggregate of the system
type Project struct {
	shared.TenantAggregateRoot
	Name          string
	ClientID      *uuid.UUID
	ClientName    string
	Address       valueobject.Address
	StartDate     *time.Time
	EndDate       *time.Time
	MaterialsCost decimal.Decimal
	LaborCost     decimal.Decimal
	Progress      int
	Status        ProjectStatus
}

// NewProject creates a new project in IN_PROGRESS status with zero progress
func NewProject(tenantID uuid.UUID, details ProjectDetails) (*Project, error) {
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	p := &Project{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              ProjectStatusInProgress,
	}
	p.applyDetails(details)

	p.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeProject, shared.ActionCreated, p.ID, tenantID,
		fmt.Sprintf("Project %q created", p.Name)))

	return p, nil
}

// Update replaces the editable fields of the project
func (p *Project) Update(details ProjectDetails) error {
	if err := validateDetails(details); err != nil {
		return err
	}
	p.applyDetails(details)
	p.Touch()

	p.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeProject, shared.ActionUpdated, p.ID, p.TenantID,
		fmt.Sprintf("Project %q updated", p.Name)))
	return nil
}

// SetStatus changes the status manually (e.g. pausing or cancelling a project)
func (p *Project) SetStatus(status ProjectStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Invalid project status: %s", status))
	}
	p.Status = status
	p.Touch()
	return nil
}

// SetManualProgress sets progress on a project that has no stages yet
func (p *Project) SetManualProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return shared.NewValidationError("Progress must be between 0 and 100")
	}
	p.Progress = progress
	p.Touch()
	return nil
}

// TotalCost returns materials plus labor cost, the project budget
func (p *Project) TotalCost() decimal.Decimal {
	return p.MaterialsCost.Add(p.LaborCost)
}

// IsPastEnd reports whether the end date is strictly before today
func (p *Project) IsPastEnd(now time.Time) bool {
	if p.EndDate == nil {
		return false
	}
	return shared.DateOf(*p.EndDate).Before(shared.DateOf(now))
}

// ApplyProgress records a recomputed progress/status pair. It returns true
// when either value changed.
func (p *Project) ApplyProgress(progress int, status ProjectStatus) bool {
	if p.Progress == progress && p.Status == status {
		return false
	}
	previous := p.Status
	p.Progress = progress
	p.Status = status
	p.Touch()

	p.AddDomainEvent(NewProgressRecalculatedEvent(p, previous))
	return true
}

// MarkDeleted raises the deletion event
func (p *Project) MarkDeleted() {
	p.AddDomainEvent(shared.NewEntityChangedEvent(AggregateTypeProject, shared.ActionDeleted, p.ID, p.TenantID,
		fmt.Sprintf("Project %q deleted", p.Name)))
}

func (p *Project) applyDetails(d ProjectDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.ClientID = d.ClientID
	p.ClientName = strings.TrimSpace(d.ClientName)
	p.Address = d.Address
	p.StartDate = datePtr(d.StartDate)
	p.EndDate = datePtr(d.EndDate)
	p.MaterialsCost = d.MaterialsCost
	p.LaborCost = d.LaborCost
}

func validateDetails(d ProjectDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 200 characters")
	}
	if d.MaterialsCost.IsNegative() || d.LaborCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Costs cannot be negative")
	}
	if d.StartDate != nil && d.EndDate != nil && shared.DateOf(*d.EndDate).Before(shared.DateOf(*d.StartDate)) {
		return shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	return nil
}

func datePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := shared.DateOf(*t)
	return &d
}
